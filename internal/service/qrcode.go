package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(restaurantID string) ([]byte, error) {
	link := fmt.Sprintf("%s/review/%s", g.BaseURL, restaurantID)
	return qrcode.Encode(link, qrcode.Medium, 256)
}

var _ QRGenerator = DefaultQRGenerator{}
