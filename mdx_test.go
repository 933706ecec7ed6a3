package mdx

import (
	"strings"
	"testing"

	"github.com/mdxlib/mdx/errs"
	"github.com/mdxlib/mdx/format"
	"github.com/mdxlib/mdx/testdata"
	"github.com/stretchr/testify/require"
)

func TestOpenBytes_TinyV2UTF8(t *testing.T) {
	articles := []testdata.Article{
		{Headword: "apple", Body: []byte("<p>red fruit</p>")},
		{Headword: "banana", Body: []byte("<p>yellow</p>")},
		{Headword: "cherry", Body: []byte("<p>small red fruit</p>")},
	}
	data := testdata.Build(articles, testdata.Options{V2: true, Encoding: format.EncodingUTF8})

	dict, err := OpenBytes(data)
	require.NoError(t, err)
	require.True(t, dict.Meta().IsV2())
	require.Equal(t, 3, dict.Len())

	headwords := dict.Headwords()
	require.Equal(t, []string{"apple", "banana", "cherry"}, []string{
		headwords[0].Headword, headwords[1].Headword, headwords[2].Headword,
	})

	entry, ok := dict.Lookup("banana")
	require.True(t, ok)

	article, err := dict.Article(entry)
	require.NoError(t, err)
	require.Equal(t, "<p>yellow</p>", string(article))
}

func TestOpenBytes_TinyV1UTF16(t *testing.T) {
	articles := []testdata.Article{
		{Headword: "月", Body: []byte("moon")},
		{Headword: "日", Body: []byte("sun")},
	}
	data := testdata.Build(articles, testdata.Options{V2: false, Encoding: format.EncodingUTF16})

	dict, err := OpenBytes(data)
	require.NoError(t, err)
	require.False(t, dict.Meta().IsV2())

	entry, ok := dict.Lookup("日")
	require.True(t, ok)

	article, err := dict.Article(entry)
	require.NoError(t, err)
	require.Equal(t, "sun", string(article))
}

func TestOpenBytes_MultiBlockLookupAndSearch(t *testing.T) {
	// Matches the 4096-key, multi-key-block, multi-record-block scenario.
	const n = 4096

	articles := make([]testdata.Article, n)
	for i := 0; i < n; i++ {
		articles[i] = testdata.Article{
			Headword: fixtureWord(i),
			Body:     []byte(fixtureWord(i) + "-article"),
		}
	}

	data := testdata.Build(articles, testdata.Options{
		V2: true, Encoding: format.EncodingUTF8,
		KeysPerBlock: 37, RecordsPerBlock: 53,
	})

	dict, err := OpenBytes(data)
	require.NoError(t, err)
	require.Equal(t, n, dict.Len())

	for i := 0; i < n; i += 97 {
		entry, ok := dict.Lookup(fixtureWord(i))
		require.True(t, ok)

		article, err := dict.Article(entry)
		require.NoError(t, err)
		require.Equal(t, fixtureWord(i)+"-article", string(article))
	}

	matches := dict.Search("word-common-")
	require.Len(t, matches, n)
}

func fixtureWord(i int) string {
	return "word-common-" + padded(i)
}

func padded(i int) string {
	const digits = "0123456789"
	s := ""
	for i > 0 || s == "" {
		s = string(digits[i%10]) + s
		i /= 10
	}

	return s
}

func TestOpenBytes_StripKeyCaseInsensitive(t *testing.T) {
	articles := []testdata.Article{
		{Headword: "apple", Body: []byte("fruit")},
	}
	data := testdata.Build(articles, testdata.Options{
		V2: true, Encoding: format.EncodingUTF8,
		KeyCaseSensitive: false, StripKey: true,
	})

	dict, err := OpenBytes(data)
	require.NoError(t, err)

	a, ok := dict.Lookup("  APPLE ")
	require.True(t, ok)
	b, ok := dict.Lookup("apple")
	require.True(t, ok)
	require.Equal(t, a, b)
}

func TestOpenBytes_LazyMatchesEager(t *testing.T) {
	articles := []testdata.Article{
		{Headword: "one", Body: []byte("first article")},
		{Headword: "two", Body: []byte("second article")},
		{Headword: "three", Body: []byte("third article")},
	}
	data := testdata.Build(articles, testdata.Options{
		V2: true, Encoding: format.EncodingUTF8, RecordsPerBlock: 1,
	})

	eager, err := OpenBytes(data, WithEagerRecords())
	require.NoError(t, err)
	lazy, err := OpenBytes(data, WithLazyRecords())
	require.NoError(t, err)

	for _, hw := range []string{"one", "two", "three"} {
		ee, ok := eager.Lookup(hw)
		require.True(t, ok)
		le, ok := lazy.Lookup(hw)
		require.True(t, ok)

		ea, err := eager.Article(ee)
		require.NoError(t, err)
		la, err := lazy.Article(le)
		require.NoError(t, err)

		require.Equal(t, ea, la)
	}
}

func TestOpenBytes_SizeCeilingExceeded(t *testing.T) {
	articles := []testdata.Article{
		{Headword: "apple", Body: []byte("fruit")},
	}
	data := testdata.Build(articles, testdata.Options{V2: true, Encoding: format.EncodingUTF8})

	_, err := OpenBytes(data, WithSizeCeiling(4))
	require.ErrorIs(t, err, errs.ErrSizeCeilingExceeded)
}

func TestOpenBytes_TruncatedInputPropagatesError(t *testing.T) {
	articles := []testdata.Article{{Headword: "x", Body: []byte("y")}}
	data := testdata.Build(articles, testdata.Options{V2: true, Encoding: format.EncodingUTF8})

	_, err := OpenBytes(data[:10])
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestNormalize(t *testing.T) {
	d := &Dictionary{}
	d.meta.StripKey = "Yes"
	d.meta.KeyCaseSensitive = "No"

	require.Equal(t, strings.ToLower("apple"), d.normalize("  Apple "))
}
