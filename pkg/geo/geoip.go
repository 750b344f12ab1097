package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver maps client IPs to ISO country codes using a local GeoLite2
// database. A nil Resolver is valid and always answers with an empty code.
type Resolver struct {
	reader *geoip2.Reader
}

func Open(path string) (*Resolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Resolver{reader: reader}, nil
}

func (r *Resolver) Country(ipAddress string) string {
	if r == nil || r.reader == nil {
		return ""
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return ""
	}

	record, err := r.reader.Country(ip)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}

func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
