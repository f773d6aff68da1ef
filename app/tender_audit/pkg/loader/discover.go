package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/iWorld-y/tender_audit/app/tender_audit/pkg/model"
)

// CaseFiles 一个案件资料夹中的两份文件
type CaseFiles struct {
	Folder       string
	Announcement string
	Instructions string
}

// discoveryRule 文件名评分规则
type discoveryRule struct {
	keywords   []string
	exclude    []string
	patterns   []*regexp.Regexp
	extensions []string
}

var (
	announcementRule = discoveryRule{
		keywords: []string{"公告", "公開", "取得", "報價", "招標", "announcement", "notice"},
		exclude:  []string{"須知", "說明", "附件", "instruction"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^01`),
			regexp.MustCompile(`公告.*\.odt$`),
			regexp.MustCompile(`公開.*\.odt$`),
		},
		extensions: []string{".odt", ".docx", ".html", ".htm"},
	}
	instructionsRule = discoveryRule{
		keywords: []string{"須知", "說明", "投標", "instruction"},
		exclude:  []string{"公告", "決標", "announcement"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^0[23]`),
			regexp.MustCompile(`須知.*\.(?:docx|odt)$`),
			regexp.MustCompile(`說明.*\.(?:docx|odt)$`),
		},
		extensions: []string{".docx", ".odt"},
	}
)

// score 计算文件名得分，不支持的副档名返回 0
func (r discoveryRule) score(name string) int {
	lower := strings.ToLower(name)
	supported := false
	for _, ext := range r.extensions {
		if strings.HasSuffix(lower, ext) {
			supported = true
			break
		}
	}
	if !supported {
		return 0
	}

	s := 10
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			s += 5
		}
	}
	for _, k := range r.exclude {
		if strings.Contains(lower, k) {
			s -= 10
		}
	}
	for _, p := range r.patterns {
		if p.MatchString(lower) {
			s += 8
		}
	}
	return s
}

// Discover 在案件资料夹中找出招标公告与投标须知。
// 以 "~$" 开头的暂存档被忽略；两者必须是不同的文件。
func Discover(folder string) (*CaseFiles, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("%w: read case folder: %w", model.ErrMissingDocument, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}

	ann := best(names, announcementRule, "")
	ins := best(names, instructionsRule, ann)

	switch {
	case ann == "" && ins == "":
		return nil, fmt.Errorf("%w: 招標公告與投標須知皆未找到 (%s)", model.ErrMissingDocument, folder)
	case ann == "":
		return nil, fmt.Errorf("%w: 招標公告未找到 (%s)", model.ErrMissingDocument, folder)
	case ins == "":
		return nil, fmt.Errorf("%w: 投標須知未找到 (%s)", model.ErrMissingDocument, folder)
	}

	return &CaseFiles{
		Folder:       folder,
		Announcement: filepath.Join(folder, ann),
		Instructions: filepath.Join(folder, ins),
	}, nil
}

// best 返回得分最高的文件名，同分按名称排序
func best(names []string, rule discoveryRule, skip string) string {
	type candidate struct {
		name  string
		score int
	}
	var cs []candidate
	for _, n := range names {
		if n == skip {
			continue
		}
		if s := rule.score(n); s > 0 {
			cs = append(cs, candidate{n, s})
		}
	}
	if len(cs) == 0 {
		return ""
	}
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].score != cs[j].score {
			return cs[i].score > cs[j].score
		}
		return cs[i].name < cs[j].name
	})
	return cs[0].name
}
