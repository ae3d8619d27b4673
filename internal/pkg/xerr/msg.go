package xerr

import "errors"

var (
	// 通用错误
	ErrSuccess        = errors.New("操作成功")
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams     = errors.New("无效的请求参数")
	ErrValidationFailed  = errors.New("参数验证失败")
	ErrEmptyContent      = errors.New("分享内容不能为空")
	ErrEmptyPassword     = errors.New("分享密码不能为空")
	ErrInvalidExpiry     = errors.New("过期天数无效")
	ErrFileTooLarge      = errors.New("上传文件过大，超出限制")
	ErrInvalidAccessCode = errors.New("提取码必须是6位数字")

	// 认证与授权错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("用户名或密码不正确")
	ErrUserAlreadyExists  = errors.New("该用户名已被注册")
	ErrEmailAlreadyExists = errors.New("邮箱已被注册")

	// 权限错误
	ErrForbidden              = errors.New("禁止访问")
	ErrPermissionDenied       = errors.New("您没有操作此资源的权限")
	ErrSharePasswordRequired  = errors.New("该分享需要密码")
	ErrSharePasswordIncorrect = errors.New("分享密码不正确")

	// 资源未找到错误
	ErrUserNotFound = errors.New("用户不存在")
	// 对外不区分"不存在"和"已过期"，避免暴露记录状态
	ErrShareNotFound = errors.New("分享不存在或已过期")

	// 业务逻辑冲突
	ErrAccessCodeConflict = errors.New("提取码分配冲突，请重试")

	// 数据库与外部服务错误
	ErrDatabaseError = errors.New("数据库操作失败")
	ErrStorageError  = errors.New("存储服务操作失败")
	ErrSearchError   = errors.New("搜索服务操作失败")
)
