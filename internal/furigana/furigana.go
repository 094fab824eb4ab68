// Package furigana は日本語訳からひらがなの読みを生成します。
package furigana

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Reader は日本語の文字列から読みを返します
type Reader interface {
	Reading(text string) string
}

// KagomeReader は IPA辞書の形態素解析で読みを求めます。
// 辞書のロードは重いので最初の呼び出しまで遅延させる。
type KagomeReader struct {
	once sync.Once
	t    *tokenizer.Tokenizer
	err  error
}

func NewKagomeReader() *KagomeReader {
	return &KagomeReader{}
}

func (k *KagomeReader) load() error {
	k.once.Do(func() {
		k.t, k.err = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return k.err
}

// Reading は text の読みをひらがなで返します。
// 辞書に無い語 (カタカナ語など) は表層形をそのまま使う。
func (k *KagomeReader) Reading(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if err := k.load(); err != nil {
		return ""
	}

	var b strings.Builder
	for _, token := range k.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		// IPA features: 7 = 読み (カタカナ)
		features := token.Features()
		reading := token.Surface
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		b.WriteString(reading)
	}
	return ToHiragana(b.String())
}

// ToHiragana はカタカナをひらがなに変換します。
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
