package notify

import (
	"fmt"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const htmlTemplate = `<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
h1, h2, h3 { color: #2c3e50; }
h1 { border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { border-bottom: 1px solid #ecf0f1; padding-bottom: 5px; }
code { background-color: #f8f9fa; padding: 2px 4px; border-radius: 3px; font-family: 'Monaco', 'Consolas', monospace; }
pre { background-color: #f8f9fa; padding: 15px; border-radius: 5px; overflow-x: auto; }
blockquote { border-left: 4px solid #3498db; margin: 0; padding-left: 20px; color: #7f8c8d; }
table { border-collapse: collapse; width: 100%%; margin: 15px 0; }
th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
th { background-color: #f2f2f2; font-weight: bold; }
ul, ol { padding-left: 20px; }
li { margin: 5px 0; }
hr { border: none; border-top: 1px solid #ecf0f1; margin: 20px 0; }
</style>
</head>
<body>
%s
</body>
</html>
`

// renderHTML converts the Markdown report into a styled HTML email body.
// Best-effort conversion: the plain-text alternative always carries the
// authoritative content.
func renderHTML(md string) string {
	p := parser.NewWithExtensions(
		parser.CommonExtensions | parser.HardLineBreak | parser.Tables | parser.FencedCode,
	)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
	})
	body := markdown.ToHTML([]byte(md), p, renderer)
	return fmt.Sprintf(htmlTemplate, string(body))
}
