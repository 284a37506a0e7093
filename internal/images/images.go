package images

import (
	"bytes"
	_ "embed"
	"image"
	_ "image/png"

	"github.com/sirupsen/logrus"
)

//go:embed splash.png
var SplashImgFile []byte

var SplashImage image.Image

func init() {
	// Load images
	var err error

	SplashImage, _, err = image.Decode(bytes.NewReader(SplashImgFile))
	if err != nil {
		logrus.Panicf("Can't load splash image: %v", err)
	}
}
