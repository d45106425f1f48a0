package content

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

var ErrUnterminatedFrontmatter = errors.New("front matter is not terminated")

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

// RenderMarkdown converts a markdown body to HTML. Raw HTML in the source is
// omitted from the output.
func RenderMarkdown(source []byte) (string, error) {
	text := bytes.TrimSpace(source)
	if len(text) == 0 {
		return "", nil
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert(text, &out); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out.String(), nil
}

const frontmatterFence = "---"

// splitFrontmatter separates a leading YAML block fenced by "---" lines from
// the body. Documents without a leading fence have empty front matter.
func splitFrontmatter(data []byte) (Frontmatter, []byte, error) {
	var fm Frontmatter

	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, []byte(frontmatterFence)) {
		return fm, data, nil
	}

	firstBreak := bytes.IndexByte(data, '\n')
	if firstBreak < 0 || strings.TrimSpace(string(data[:firstBreak])) != frontmatterFence {
		return fm, data, nil
	}

	rest := data[firstBreak+1:]
	offset := 0
	for {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if lineEnd < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+lineEnd]
		}

		if strings.TrimSpace(string(line)) == frontmatterFence {
			header := rest[:offset]
			body := []byte{}
			if lineEnd >= 0 {
				body = rest[offset+lineEnd+1:]
			}
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return Frontmatter{}, nil, fmt.Errorf("parse front matter: %w", err)
			}
			return fm, body, nil
		}

		if lineEnd < 0 {
			return Frontmatter{}, nil, ErrUnterminatedFrontmatter
		}
		offset += lineEnd + 1
	}
}

// stripMDXStatements drops top-level import and export lines, which have no
// meaning outside a component build.
func stripMDXStatements(body []byte) ([]byte, error) {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inFence := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if !inFence && (strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ")) {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mdx body: %w", err)
	}
	return out.Bytes(), nil
}
