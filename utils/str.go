package utils

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrUnknownCharset = errors.New("unknown charset")
)

// htmlindex未收录的常见代码页别名
var codePageAliases = map[string]encoding.Encoding{
	"cp936":   simplifiedchinese.GBK,
	"936":     simplifiedchinese.GBK,
	"cp54936": simplifiedchinese.GB18030,
	"utf8":    unicode.UTF8,
}

// 文本解码器，零值不做转换
type Decoder struct {
	charset string
	dec     *encoding.Decoder
}

// NewDecoder 按字符集名称（WHATWG标签或cp936等代码页）创建解码器，UTF-8不做转换
func NewDecoder(charset string) (d Decoder, err error) {
	name := strings.ToLower(strings.TrimSpace(charset))
	enc, ok := codePageAliases[name]
	if !ok {
		if enc, err = htmlindex.Get(name); err != nil {
			err = fmt.Errorf("%w: %q", ErrUnknownCharset, charset)
			return
		}
	}
	d.charset = charset
	if enc != unicode.UTF8 {
		d.dec = enc.NewDecoder()
	}
	return
}

func (d Decoder) Charset() string {
	return d.charset
}

// String 解码字符串，并去除其中的NUL和非法UTF-8序列
func (d Decoder) String(s string) (string, error) {
	if d.dec == nil {
		return PurifyForUtf8(s), nil
	}
	t, err := d.dec.String(s)
	if err != nil {
		return "", err
	}
	return PurifyForUtf8(t), nil
}

func PurifyForUtf8(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}
