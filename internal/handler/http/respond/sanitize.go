package respond

import "regexp"

var (
	// access_token=... in cookies and query strings
	accessTokenPattern = regexp.MustCompile(`(access_token=)[^;&\s"]+`)
	// Authorization: Bearer ...
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[a-z0-9._~+/=-]+`)
	// user:password@ in URLs
	urlPasswordPattern = regexp.MustCompile(`://([^:/@\s]+):([^@/\s]+)@`)
)

// SanitizeError は認証情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = accessTokenPattern.ReplaceAllString(msg, "${1}****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = urlPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
