package model

import "errors"

var (
	// ErrMissingDocument 案件资料夹中找不到公告或须知，整案无法审核
	ErrMissingDocument = errors.New("missing document")
	// ErrUnreadableDocument 文件存在但无法解出正文，整案无法审核
	ErrUnreadableDocument = errors.New("unreadable document")
)
