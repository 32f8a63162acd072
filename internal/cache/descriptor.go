package cache

import (
	"net/url"
	"strings"
)

// Descriptor 描述一次可被缓存的上游请求，构造后不再修改。
// 它只作为缓存输入参与指纹计算，本身不会被持久化。
type Descriptor struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// Validate 校验方法白名单与 URL 形状，返回全部违反项而非首个。
// 通过时返回 nil。
func (d Descriptor) Validate(allowedMethods []string) *ValidationError {
	var violations []string

	method := strings.ToUpper(strings.TrimSpace(d.Method))
	if method == "" {
		violations = append(violations, "method is required")
	} else if !methodAllowed(method, allowedMethods) {
		violations = append(violations, "method "+method+" is not allowed (expected "+strings.Join(allowedMethods, "|")+")")
	}

	target := strings.TrimSpace(d.URL)
	if target == "" {
		violations = append(violations, "url is required")
	} else {
		parsed, err := url.Parse(target)
		switch {
		case err != nil:
			violations = append(violations, "url is not parseable")
		case !parsed.IsAbs():
			violations = append(violations, "url must be absolute")
		case parsed.Scheme != "http" && parsed.Scheme != "https":
			violations = append(violations, "url scheme must be http or https")
		case parsed.Host == "":
			violations = append(violations, "url host is required")
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// normalized 返回参与指纹计算的规范字段副本，方法统一大写。
func (d Descriptor) normalized() Descriptor {
	return Descriptor{
		Method: strings.ToUpper(strings.TrimSpace(d.Method)),
		URL:    strings.TrimSpace(d.URL),
	}
}

func methodAllowed(method string, allowed []string) bool {
	for _, m := range allowed {
		if method == m {
			return true
		}
	}
	return false
}
