package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNG(t *testing.T) {
	data, err := Encode("https://www.tripadvisor.com/Attraction_Review-krka", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestEncodeRejectsEmptyContent(t *testing.T) {
	_, err := Encode("", 128)
	assert.Error(t, err)
}
