package service

import "errors"

// 业务错误哨兵。处理器按错误类别映射 HTTP 状态码
var (
	ErrNotFound            = errors.New("记录不存在")
	ErrPermissionDenied    = errors.New("无权限执行该操作")
	ErrInvalidState        = errors.New("当前状态不允许该操作")
	ErrMissingPrerequisite = errors.New("前置条件未满足")
	ErrValidation          = errors.New("参数校验失败")
	ErrDuplicateYear       = errors.New("该年度已存在完整报告")
	ErrIntegrityFailure    = errors.New("文书完整性校验未通过")
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrAccountDisabled     = errors.New("账户已停用")
	ErrNoEmployeeIdentity  = errors.New("该账户未关联职员身份")
)

// [自证通过] internal/service/errors.go
