package summarizer

import (
	"fmt"

	"url-summarizer/internal/utils/text"
)

const (
	// MaxInputChars is the largest content, in characters, sent to the model.
	MaxInputChars = 100000

	// TruncationMarker is appended to content cut at MaxInputChars.
	TruncationMarker = "\n...(内容が長いため省略されました)"
)

const promptTemplate = `
<input>
%s
</input>

上記のテキストを日本語で要約してください。以下の条件に従ってください：

1. 最大%d文字程度に収めてください
2. 原文の主要なポイントやトピックを網羅してください
3. 客観的かつ正確に要約してください
4. 読みやすく、簡潔な日本語で書いてください
5. 箇条書きではなく、通常の文章形式で要約してください
6. 原文に含まれる最も重要な情報を優先的に含めてください
7. 技術的な記事の場合は、専門用語を適切に保持してください

要約：
`

// TruncateInput cuts content to MaxInputChars and appends TruncationMarker.
// Content at or under the limit is returned unchanged.
func TruncateInput(content string) (string, bool) {
	head, truncated := text.TruncateRunes(content, MaxInputChars)
	if !truncated {
		return content, false
	}
	return head + TruncationMarker, true
}

// BuildPrompt renders the summarization prompt. content must already be truncated.
func BuildPrompt(content string, maxLength int) string {
	return fmt.Sprintf(promptTemplate, content, maxLength)
}
