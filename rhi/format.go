// Copyright 2024 MaxJon233. All rights reserved.

package rhi

import (
	"github.com/sirupsen/logrus"

	"github.com/MaxJon233/GameEngineFromScratch/driver"
)

// mapPixelFmt maps a host image descriptor to the native
// pixel format.
// It is a pure function of the descriptor. Descriptors
// outside the supported domain indicate a content defect
// baked into the build, not a recoverable runtime
// condition, so they terminate the process after logging
// the offending image.
func mapPixelFmt(img *Image) driver.PixelFmt {
	if img.Compressed {
		switch img.Codec {
		case CodecDXT1:
			return driver.BC1RGBA
		case CodecDXT3:
			return driver.BC2RGBA
		case CodecDXT5:
			return driver.BC3RGBA
		}
		logger.WithFields(logrus.Fields{
			"codec":  img.Codec.String(),
			"width":  img.Width,
			"height": img.Height,
		}).Fatalf(rhiPrefix + "unrecognized compression codec")
		return driver.FmtInvalid
	}
	switch img.BitCount {
	case 8:
		return driver.R8Unorm
	case 16:
		return driver.RG8Unorm
	case 32:
		return driver.RGBA8Unorm
	case 64:
		if img.Float {
			return driver.RGBA16Float
		}
		return driver.RGBA16Unorm
	case 128:
		if img.Float {
			return driver.RGBA32Float
		}
		return driver.RGBA32Uint
	}
	logger.WithFields(logrus.Fields{
		"bitCount": img.BitCount,
		"width":    img.Width,
		"height":   img.Height,
	}).Fatalf(rhiPrefix + "unsupported bit depth")
	return driver.FmtInvalid
}
