package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/abhishek-geeks/organize-cli/internal"
	"github.com/abhishek-geeks/organize-cli/pkg/logger"
)

// Algorithm 指纹算法
type Algorithm string

const (
	SHA256   Algorithm = "sha256"
	XXHash64 Algorithm = "xxhash64"
)

var ErrUnknownAlgorithm = errors.New("unknown fingerprint algorithm")

func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", SHA256:
		return SHA256, nil
	case XXHash64, "xxhash":
		return XXHash64, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, s)
	}
}

// ErrorKind 区分指纹计算失败的原因
type ErrorKind int

const (
	KindIO ErrorKind = iota
	KindNotFound
	KindPermission
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	default:
		return "i/o error"
	}
}

// FingerprintError 单个文件的指纹计算失败
type FingerprintError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("fingerprint %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FingerprintError) Unwrap() error {
	return e.Err
}

func newFingerprintError(path string, err error) *FingerprintError {
	kind := KindIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	}
	return &FingerprintError{Path: path, Kind: kind, Err: err}
}

// Hasher 按固定块大小流式计算文件内容指纹
type Hasher struct {
	fs        afero.Fs
	algorithm Algorithm
	blockSize int
}

func New(fsys afero.Fs, algorithm Algorithm, blockSize int) *Hasher {
	if algorithm == "" {
		algorithm = SHA256
	}
	if blockSize <= 0 {
		blockSize = internal.DefaultBlockSize
	}
	return &Hasher{
		fs:        fsys,
		algorithm: algorithm,
		blockSize: blockSize,
	}
}

func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

func (h *Hasher) newDigest() hash.Hash {
	if h.algorithm == XXHash64 {
		return xxhash.New()
	}
	return sha256.New()
}

// Fingerprint 返回文件内容的十六进制摘要
// 内存占用只与块大小有关，与文件大小无关
func (h *Hasher) Fingerprint(filePath string) (string, error) {
	logger.Get().Trace().Msgf("计算文件指纹: %s", filePath)

	file, err := h.fs.Open(filePath)
	if err != nil {
		return "", newFingerprintError(filePath, err)
	}
	defer file.Close()

	digest := h.newDigest()
	buf := make([]byte, h.blockSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", newFingerprintError(filePath, err)
		}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
