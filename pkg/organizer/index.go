package organizer

// fingerprintIndex 记录本次运行中每个指纹第一次出现的文件
// 只存活于一次 Run，不持久化
type fingerprintIndex struct {
	seen map[string]string
}

func newFingerprintIndex() *fingerprintIndex {
	return &fingerprintIndex{seen: make(map[string]string)}
}

// lookup 返回已登记的规范文件
func (x *fingerprintIndex) lookup(digest string) (string, bool) {
	path, ok := x.seen[digest]
	return path, ok
}

// register 登记规范文件，已存在时保持第一次登记的路径
func (x *fingerprintIndex) register(digest, path string) {
	if _, ok := x.seen[digest]; ok {
		return
	}
	x.seen[digest] = path
}

func (x *fingerprintIndex) size() int {
	return len(x.seen)
}
