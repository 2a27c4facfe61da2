package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Run("headers are normalized and values trimmed", func(t *testing.T) {
		csv := "  Name  ,Shopee  URL,TOKPED_Price\n Kettle , https://shopee.co.id/k ,45000\n"
		rows, err := readCSV(strings.NewReader(csv), readOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		assert.Equal(t, map[string]string{
			"name":         "Kettle",
			"shopee_url":   "https://shopee.co.id/k",
			"tokped_price": "45000",
		}, rows[0].Data)
		assert.Equal(t, 2, rows[0].LineNumber)
	})

	t.Run("byte order mark is dropped", func(t *testing.T) {
		rows, err := readCSV(strings.NewReader("\xEF\xBB\xBFname,category\nBlender,Dapur"), readOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Blender", rows[0].Get("name"))
	})

	t.Run("semicolon exports", func(t *testing.T) {
		csv := "name;tokped_url;tokped_price\nKettle;https://tokopedia.com/k;50000,50\n"
		rows, err := readCSV(strings.NewReader(csv), readOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "https://tokopedia.com/k", rows[0].Get("tokped_url"))
		assert.Equal(t, "50000,50", rows[0].Get("tokped_price"))
	})

	t.Run("quoted fields keep commas and newlines", func(t *testing.T) {
		csv := "name,description\n\"Phone, 128GB\",\"Fast\nLight\"\nKettle,Steel\n"
		rows, err := readCSV(strings.NewReader(csv), readOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Phone, 128GB", rows[0].Get("name"))
		assert.Equal(t, "Fast\nLight", rows[0].Get("description"))
		assert.Equal(t, 4, rows[1].LineNumber)
	})

	t.Run("short records and duplicate headers", func(t *testing.T) {
		csv := "name,Name,category\nKettle\nBlender,ignored,Dapur\n"
		rows, err := readCSV(strings.NewReader(csv), readOptions{})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Kettle", rows[0].Get("name"))
		assert.Equal(t, "", rows[0].Get("category"))
		assert.Equal(t, "Blender", rows[1].Get("name"), "first column wins")
		assert.Equal(t, "Dapur", rows[1].Get("category"))
	})

	t.Run("long files keep multi-byte runes at the sample edge", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("name\n")
		for b.Len() < encodingSample+100 {
			b.WriteString("Kopi Arabika Gayo ☕\n")
		}
		rows, err := readCSV(strings.NewReader(b.String()), readOptions{})
		require.NoError(t, err)
		assert.NotEmpty(t, rows)
	})
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyFile},
		{"blank", " \n\n", ErrEmptyFile},
		{"not utf-8", "name\n\xff\xfe", ErrInvalidEncoding},
		{"blank header", ",,\na,b,c\n", ErrMissingHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readCSV(strings.NewReader(tt.input), readOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("name,price\n1;2;3;4")))
	assert.Equal(t, ';', sniffDelimiter([]byte("name;price;url\nx")))
	assert.Equal(t, ',', sniffDelimiter([]byte("name")))
}
