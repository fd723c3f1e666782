package vfs

import (
	"regexp"
	"strconv"
)

// 只取 Range 头里第一个区间，多区间请求不支持
var rangeRe = regexp.MustCompile(`bytes=(\d*?)-(\d*?)(,|$|\s)`)

// ParseRange 解析 HTTP Range 头，返回闭区间 [start, end] 和是否部分响应.
// header 为空返回整个文件；头无法解析时退化为整个文件而不是报错.
// 空文件的整文件区间是 (0, -1)，对应长度 end-start+1 = 0.
// "bytes=100-199" -> (100, 199, true)
// "bytes=900-"    -> (900, size-1, true)
// ""              -> (0, size-1, false)
func ParseRange(header string, size int64) (start, end int64, partial bool) {
	full := size - 1

	// 空文件没有可满足的区间，任何 Range 头都退化为整文件响应
	if size == 0 {
		return 0, full, false
	}

	if header == "" {
		return 0, full, false
	}

	caps := rangeRe.FindStringSubmatch(header)
	if caps == nil {
		return 0, full, false
	}

	if caps[1] != "" {
		v, err := strconv.ParseInt(caps[1], 10, 64)
		if err != nil {
			return 0, full, false
		}

		start = v
	}

	end = full

	if caps[2] != "" {
		v, err := strconv.ParseInt(caps[2], 10, 64)
		if err != nil {
			return 0, full, false
		}

		if v < end {
			end = v
		}
	}

	return start, end, true
}
