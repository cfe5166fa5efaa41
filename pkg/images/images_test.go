package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestNames(t *testing.T) {
	RegisterTestingT(t)

	Expect(Names(3)).To(Equal([]string{"1.jpg", "2.jpg", "3.jpg"}))
	Expect(Names(0)).To(BeEmpty())
}

func TestDataURI(t *testing.T) {
	RegisterTestingT(t)

	Expect(DataURI([]byte("abc"))).To(Equal("data:image/jpeg;base64,YWJj"))
	Expect(Image{Filename: "1.jpg", Data: []byte("abc")}.DataURI()).To(Equal("data:image/jpeg;base64,YWJj"))
}

func TestLoadAllSkipsMissingAndKeepsOrder(t *testing.T) {
	RegisterTestingT(t)

	fs := afero.NewMemMapFs()
	Expect(afero.WriteFile(fs, "/img/1.jpg", []byte("one"), 0o644)).To(Succeed())
	Expect(afero.WriteFile(fs, "/img/2.jpg", []byte("two"), 0o644)).To(Succeed())
	Expect(afero.WriteFile(fs, "/img/4.jpg", []byte("four"), 0o644)).To(Succeed())

	var out bytes.Buffer
	store := NewStore(fs, "/img", logger.New(logger.WithWriter(&out)))

	loaded, err := store.LoadAll(context.Background(), 5)
	Expect(err).ToNot(HaveOccurred())
	Expect(loaded).To(Equal([]Image{
		{Filename: "1.jpg", Data: []byte("one")},
		{Filename: "2.jpg", Data: []byte("two")},
		{Filename: "4.jpg", Data: []byte("four")},
	}))
	Expect(out.String()).To(ContainSubstring("image not found, skipping: 3.jpg"))
	Expect(out.String()).To(ContainSubstring("image not found, skipping: 5.jpg"))
}

func TestLoadAllEmptyDirectory(t *testing.T) {
	RegisterTestingT(t)

	store := NewStore(afero.NewMemMapFs(), "/img", logger.New(logger.WithWriter(&bytes.Buffer{})))
	loaded, err := store.LoadAll(context.Background(), 5)
	Expect(err).ToNot(HaveOccurred())
	Expect(loaded).To(BeEmpty())
}

func TestLoadAllDownscalesLargeImages(t *testing.T) {
	RegisterTestingT(t)

	fs := afero.NewMemMapFs()
	Expect(afero.WriteFile(fs, "/img/1.jpg", testJPEG(t, 40, 30), 0o644)).To(Succeed())

	store := NewStore(fs, "/img", logger.New(logger.WithWriter(&bytes.Buffer{})), WithMaxPixels(300))
	loaded, err := store.LoadAll(context.Background(), 1)
	Expect(err).ToNot(HaveOccurred())
	Expect(loaded).To(HaveLen(1))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(loaded[0].Data))
	Expect(err).ToNot(HaveOccurred())
	Expect(format).To(Equal("jpeg"))
	Expect(cfg.Width * cfg.Height).To(BeNumerically("<=", 300))
	Expect(cfg.Width).To(BeNumerically(">", cfg.Height))
}

func TestPrepare(t *testing.T) {
	RegisterTestingT(t)

	small := testJPEG(t, 10, 10)
	data, resized, err := Prepare(small, 1000)
	Expect(err).ToNot(HaveOccurred())
	Expect(resized).To(BeFalse())
	Expect(data).To(Equal(small))

	data, resized, err = Prepare([]byte("not an image"), 1)
	Expect(err).ToNot(HaveOccurred())
	Expect(resized).To(BeFalse())
	Expect(string(data)).To(Equal("not an image"))

	data, resized, err = Prepare(testJPEG(t, 100, 100), 2500)
	Expect(err).ToNot(HaveOccurred())
	Expect(resized).To(BeTrue())
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	Expect(err).ToNot(HaveOccurred())
	Expect(cfg.Width).To(Equal(50))
	Expect(cfg.Height).To(Equal(50))
}

func TestStoreRead(t *testing.T) {
	RegisterTestingT(t)

	fs := afero.NewMemMapFs()
	Expect(afero.WriteFile(fs, "/img/2.jpg", []byte("two"), 0o644)).To(Succeed())
	store := NewStore(fs, "/img", logger.New(logger.WithWriter(&bytes.Buffer{})))

	data, err := store.Read("2.jpg")
	Expect(err).ToNot(HaveOccurred())
	Expect(string(data)).To(Equal("two"))

	_, err = store.Read("9.jpg")
	Expect(err).To(HaveOccurred())
	Expect(strings.Contains(err.Error(), "/img/9.jpg")).To(BeTrue())
}
