package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	FILE_EXT_SHP = ".shp"
	FILE_EXT_CPG = ".cpg"
)

// SplitExt 拆分文件名与扩展名，以点开头的隐藏文件视为无扩展名
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	stem = strings.TrimSuffix(name, ext)
	return
}

// EnsureParentDir 创建文件所在的目录
func EnsureParentDir(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// ReadCpg 读取shp同名.cpg文件中的编码声明，无.cpg或非shp时返回空
func ReadCpg(shp string) (cpg string) {
	if !strings.EqualFold(filepath.Ext(shp), FILE_EXT_SHP) {
		return
	}
	enc, err := os.ReadFile(strings.TrimSuffix(shp, filepath.Ext(shp)) + FILE_EXT_CPG)
	if err == nil {
		cpg = strings.TrimSpace(string(enc))
	}
	return
}
