package utils

import "github.com/microcosm-cc/bluemonday"

// noticePolicy filters the operator-authored site notice before it is handed
// to the frontend. UGC defaults plus new-tab links; scripts and inline event
// handlers never survive.
var noticePolicy = newNoticePolicy()

func newNoticePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize strips unsafe markup from configured HTML.
func Sanitize(input string) string {
	return noticePolicy.Sanitize(input)
}
