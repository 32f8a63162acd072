package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Fingerprint 计算任意结构化值的定宽指纹。映射键在哈希前统一排序，
// 因此字段相同但构造顺序不同的值（例如 JSON 解码产生的 map）指纹一致。
// 纯函数：不做 I/O，跨进程重启结果稳定。指纹碰撞视为可忽略风险，
// 缓存层不做碰撞检测。
func Fingerprint(v any) string {
	h := sha256.New()
	writeCanonical(h, v)
	return hex.EncodeToString(h.Sum(nil))
}

// writeCanonical 以带类型前缀的规范字节序列编码 v，保证同值同序列。
// 长度前缀避免相邻字符串拼接产生歧义。
func writeCanonical(w io.Writer, v any) {
	switch val := v.(type) {
	case nil:
		io.WriteString(w, "z;")
	case bool:
		fmt.Fprintf(w, "b:%t;", val)
	case string:
		fmt.Fprintf(w, "s:%d:%s;", len(val), val)
	case json.Number:
		fmt.Fprintf(w, "n:%s;", val.String())
	case float64:
		fmt.Fprintf(w, "n:%s;", strconv.FormatFloat(val, 'g', -1, 64))
	case float32:
		fmt.Fprintf(w, "n:%s;", strconv.FormatFloat(float64(val), 'g', -1, 32))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		fmt.Fprintf(w, "n:%d;", val)
	case []byte:
		fmt.Fprintf(w, "s:%d:%s;", len(val), val)
	case []any:
		io.WriteString(w, "l:")
		for _, item := range val {
			writeCanonical(w, item)
		}
		io.WriteString(w, ";")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		io.WriteString(w, "m:")
		for _, k := range keys {
			fmt.Fprintf(w, "s:%d:%s;", len(k), k)
			writeCanonical(w, val[k])
		}
		io.WriteString(w, ";")
	default:
		// 结构体等复合类型先经 JSON 往返归一化成 map/slice/标量再编码，
		// 与直接从 JSON 解码得到的等价值保持同一指纹。
		raw, err := json.Marshal(val)
		if err != nil {
			fmt.Fprintf(w, "?:%v;", val)
			return
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			fmt.Fprintf(w, "?:%s;", raw)
			return
		}
		writeCanonical(w, decoded)
	}
}
