package mirror

import (
	"sort"

	"github.com/pkg/errors"
)

const DefaultMirror = "aliyun"

// mirrors maps a short mirror name to its HTTPS base URL. The base is
// substituted into the generated repository list; no path component beyond
// the distribution layout is added here.
var mirrors = map[string]string{
	"aliyun":   "https://mirrors.aliyun.com",
	"huawei":   "https://mirrors.huaweicloud.com",
	"tencent":  "https://mirrors.cloud.tencent.com",
	"tsinghua": "https://mirrors.tuna.tsinghua.edu.cn",
	"ustc":     "https://mirrors.ustc.edu.cn",
}

// Names returns the known mirror names, sorted.
func Names() []string {
	names := make([]string, 0, len(mirrors))
	for name := range mirrors {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func BaseURL(name string) (string, error) {
	base, ok := mirrors[name]
	if !ok {
		return "", errors.Errorf("unknown mirror %q (known: %v)", name, Names())
	}

	return base, nil
}
