package service

import "errors"

// 业务错误。handler层用errors.Is映射到HTTP状态码。
var (
	ErrNoCalendarsSelected   = errors.New("no calendars selected")
	ErrNoAccessibleCalendars = errors.New("no accessible calendars")
	ErrAccessDenied          = errors.New("access denied")
	ErrNotFound              = errors.New("not found")
	ErrNotFriends            = errors.New("users are not friends")
	ErrInvalidMember         = errors.New("invalid member")
	ErrEmptyGroupOrder       = errors.New("empty group order")
)
