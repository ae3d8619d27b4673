package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode     = 40000 // 无效的请求参数
	ValidationFailedCode  = 40001 // 参数验证失败
	EmptyContentCode      = 40002 // 分享内容为空
	EmptyPasswordCode     = 40003 // 要求设置密码但密码为空
	InvalidExpiryCode     = 40004 // 过期天数无效
	FileTooLargeCode      = 40005 // 上传文件过大
	InvalidAccessCodeCode = 40006 // 提取码格式无效

	// --- 认证与授权错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 用户名或密码错误

	// --- 权限错误系列 (403xx) ---
	ForbiddenCode              = 40300 // 通用无权限
	PermissionDeniedCode       = 40301 // 权限不足 (细分)
	SharePasswordRequiredCode  = 40302 // 分享需要密码
	SharePasswordIncorrectCode = 40303 // 分享密码不正确

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode      = 40400 // 通用资源未找到
	UserNotFoundCode  = 40401 // 用户不存在
	ShareNotFoundCode = 40402 // 分享不存在、已过期或无权访问

	// --- 业务逻辑冲突系列 (409xx) ---
	UserAlreadyExistsCode  = 40900 // 用户名已存在
	EmailAlreadyExistsCode = 40901 // 邮箱已存在
	AccessCodeConflictCode = 40902 // 提取码冲突且重试耗尽

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	DatabaseErrorCode       = 50001 // 数据库操作失败
	StorageErrorCode        = 50002 // 存储服务操作失败（如MinIO）
	SearchErrorCode         = 50003 // 搜索服务操作失败
)
