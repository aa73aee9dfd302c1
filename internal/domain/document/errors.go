package document

import "errors"

// 上传相关错误
var (
	// ErrUploadInFlight 已有一个上传在进行中
	ErrUploadInFlight = errors.New("another upload is already in progress")
	// ErrFileTooLarge 文件超过大小上限
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	// ErrUnsupportedType 不支持的文件类型
	ErrUnsupportedType = errors.New("only PDF files are supported")
)
