package respond

import (
	"regexp"
)

var (
	// 順序重要: より具体的なパターンから適用する
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// マスク済み文字列（*を含む）にはマッチしない
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	firecrawlKeyPattern = regexp.MustCompile(`fc-[a-zA-Z0-9]{8,}`)
	langfuseKeyPattern  = regexp.MustCompile(`(pk|sk)-lf-[a-zA-Z0-9-]+`)
	bearerPattern       = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/=-]+`)

	// URL内の認証情報（プロキシURLなど）
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@/\s]+)@`)
)

// SanitizeError returns err's message with API keys and credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks API keys and credentials in msg.
func SanitizeString(msg string) string {
	msg = langfuseKeyPattern.ReplaceAllString(msg, "$1-lf-****")
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = firecrawlKeyPattern.ReplaceAllString(msg, "fc-****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = userinfoPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
