package dashboard

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Locator 는 IP 주소를 좌표로 바꾼다.
type Locator interface {
	Locate(ip string) (lat float64, lng float64, ok bool)
}

// GeoIPLocator 는 MaxMind City DB 기반 Locator 다.
type GeoIPLocator struct {
	reader *geoip2.Reader
}

// OpenGeoIP 는 .mmdb 파일을 연다.
func OpenGeoIP(path string) (*GeoIPLocator, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &GeoIPLocator{reader: reader}, nil
}

// Locate 는 IP 의 도시 좌표를 반환한다. 해석할 수 없으면 ok 가 false 다.
func (g *GeoIPLocator) Locate(ip string) (float64, float64, bool) {
	if g == nil || g.reader == nil {
		return 0, 0, false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return 0, 0, false
	}
	record, err := g.reader.City(parsed)
	if err != nil {
		return 0, 0, false
	}
	if record.Location.Latitude == 0 && record.Location.Longitude == 0 {
		return 0, 0, false
	}
	return record.Location.Latitude, record.Location.Longitude, true
}

// Close 는 DB 파일을 닫는다.
func (g *GeoIPLocator) Close() {
	if g != nil && g.reader != nil {
		_ = g.reader.Close()
	}
}
