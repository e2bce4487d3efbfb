package templates

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// LoadMarkdown reads template overrides from a Markdown file and layers them
// over base (Default() when nil).
//
// Format: each "## <mood>" heading starts a section; the section body is the
// template. An optional "Phrase: ..." first line sets the mood phrase.
// "## default" overrides the generic template. Unknown headings are errors.
//
//	## heartfelt
//	Phrase: warm and thankful
//	Thank you for everything. {name}
func LoadMarkdown(path string, base *Library) (*Library, error) {
	if base == nil {
		base = Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := &Library{
		phrases: clone(base.phrases),
		bodies:  clone(base.bodies),
		generic: base.generic,
	}

	var (
		section string
		body    strings.Builder
		lineNo  int
	)
	flush := func() {
		if section == "" {
			return
		}
		text := strings.TrimSpace(body.String())
		body.Reset()
		if text == "" {
			return
		}
		if section == DefaultKey {
			out.generic = text
			return
		}
		out.bodies[domain.Mood(section)] = text
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if strings.HasPrefix(line, "## ") {
			flush()
			name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "## ")))
			if name != DefaultKey && !domain.Mood(name).Valid() {
				return nil, fmt.Errorf("templates: %s:%d: unknown mood %q", path, lineNo, name)
			}
			section = name
			continue
		}
		if section == "" || line == "" {
			continue
		}
		if body.Len() == 0 && section != DefaultKey {
			if p, ok := cutFold(line, "phrase:"); ok {
				if p = strings.TrimSpace(p); p != "" {
					out.phrases[domain.Mood(section)] = p
				}
				continue
			}
		}
		if body.Len() > 0 {
			body.WriteByte(' ')
		}
		body.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
