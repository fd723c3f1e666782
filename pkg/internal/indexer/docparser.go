package indexer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractBody 尝试抽取文件正文用于全文索引.
// 只处理文本与 PDF，超过大小上限的文件直接跳过；
// 返回的 bool 表示是否抽到了正文.
func extractBody(abs, mime string, size, maxSize int64) (string, bool, error) {
	if maxSize > 0 && size > maxSize {
		return "", false, nil
	}

	switch {
	case strings.Contains(mime, "text"):
		body, err := readTextFile(abs)
		if err != nil {
			return "", false, err
		}

		return body, true, nil
	case strings.Contains(mime, "pdf"):
		body, err := readPDFText(abs)
		if err != nil {
			return "", false, err
		}

		return body, true, nil
	default:
		return "", false, nil
	}
}

func readTextFile(abs string) (string, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", abs, err)
	}

	return string(data), nil
}

func readPDFText(abs string) (string, error) {
	f, r, err := pdf.Open(abs)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %q: %w", abs, err)
	}
	defer f.Close()

	textReader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text %q: %w", abs, err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, textReader); err != nil {
		return "", fmt.Errorf("failed to read pdf text %q: %w", abs, err)
	}

	return sb.String(), nil
}
