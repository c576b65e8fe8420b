package useragent

import "strings"

// Unknown 未识别时的取值
const Unknown = "Unknown"

// Info User-Agent 解析结果
type Info struct {
	Browser string
	OS      string
}

type token struct {
	needles []string
	name    string
}

// 按顺序做子串匹配，首个命中者生效。
// 特征更具体的排在前面：Edge 的 UA 同时包含 Chrome，Chrome 的 UA 同时包含 Safari，
// Android 的 UA 同时包含 Linux，iPhone/iPad 的 UA 同时包含 Mac OS X。
var (
	browsers = []token{
		{[]string{"Edg/", "Edge"}, "Edge"},
		{[]string{"Chrome"}, "Chrome"},
		{[]string{"Safari"}, "Safari"},
		{[]string{"Firefox"}, "Firefox"},
		{[]string{"MSIE", "Trident"}, "IE"},
	}
	systems = []token{
		{[]string{"Windows"}, "Windows"},
		{[]string{"Android"}, "Android"},
		{[]string{"iOS", "iPhone", "iPad"}, "iOS"},
		{[]string{"Mac"}, "macOS"},
		{[]string{"Linux"}, "Linux"},
	}
)

// Parse 解析 User-Agent 字符串
func Parse(ua string) Info {
	return Info{
		Browser: match(ua, browsers),
		OS:      match(ua, systems),
	}
}

func match(ua string, list []token) string {
	if ua == "" {
		return Unknown
	}
	for _, t := range list {
		for _, n := range t.needles {
			if strings.Contains(ua, n) {
				return t.name
			}
		}
	}
	return Unknown
}
