package rastercrop

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wgdzlh/rastercrop/utils"
)

// 输出文件名选项，零值为平铺到输出目录、保持原扩展名
type OutputOptions struct {
	KeepStructure bool   // 保留输入目录相对inputRoot的层级
	Extra         string // 附加到文件名上的标签
	Begin         bool   // Extra加在文件名前（否则加在扩展名前）
	Extension     string // 替换扩展名，可带或不带前导点
}

// Find 递归查找root下文件名匹配pattern的文件。
// 每个目录先按名称顺序给出本目录的匹配文件，再按名称顺序进入子目录
func Find(root, pattern string, absolute bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			yield("", fmt.Errorf("%w: %q: %v", ErrInvalidPath, pattern, err))
			return
		}
		base := root
		if absolute {
			abs, err := filepath.Abs(root)
			if err != nil {
				yield("", err)
				return
			}
			base = abs
		}
		walkDir(base, pattern, yield)
	}
}

// 返回false时终止遍历
func walkDir(dir, pattern string, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		yield("", err)
		return false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var subDirs []string
	for _, e := range entries {
		if e.IsDir() {
			subDirs = append(subDirs, e.Name())
			continue
		}
		if !isRegularFile(dir, e) {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			if !yield(filepath.Join(dir, e.Name()), nil) {
				return false
			}
		}
	}
	for _, sub := range subDirs {
		if !walkDir(filepath.Join(dir, sub), pattern, yield) {
			return false
		}
	}
	return true
}

// 普通文件或指向普通文件的符号链接，指向目录的链接不进入
func isRegularFile(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// ResolveOutput 由输入文件路径生成输出文件路径，不访问文件系统
func ResolveOutput(inputFile, inputRoot, outputRoot string, opts OutputOptions) (out string, err error) {
	stem, ext := utils.SplitExt(filepath.Base(inputFile))
	if opts.Extension != "" {
		ext = opts.Extension
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}
	if opts.Begin {
		stem = opts.Extra + stem
	} else {
		stem += opts.Extra
	}
	name := stem + ext
	if !opts.KeepStructure {
		out = filepath.Join(outputRoot, name)
		return
	}
	rel, err := filepath.Rel(filepath.Clean(inputRoot), filepath.Dir(filepath.Clean(inputFile)))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		err = fmt.Errorf("%w: %s is not under %s", ErrInvalidPath, inputFile, inputRoot)
		return
	}
	out = filepath.Join(outputRoot, rel, name)
	return
}
