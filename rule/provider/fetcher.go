package provider

import (
	"bytes"
	"crypto/md5"
	"net/netip"
	"time"

	"github.com/ipcheck/ipcheck/log"
)

type parser func(buf []byte) ([]netip.Prefix, error)

// fetcher pulls a provider's payload through its vehicle, parses it, and
// hands the result to onUpdate. With a non-zero interval it keeps pulling in
// the background; an unchanged payload hash skips the update.
type fetcher struct {
	name      string
	vehicle   Vehicle
	interval  time.Duration
	updatedAt time.Time
	hash      [md5.Size]byte
	parser    parser
	onUpdate  func([]netip.Prefix) error
	ticker    *time.Ticker
	done      chan struct{}
}

func (f *fetcher) Name() string {
	return f.name
}

func (f *fetcher) VehicleType() VehicleType {
	return f.vehicle.Type()
}

func (f *fetcher) Initial() ([]netip.Prefix, error) {
	buf, err := f.vehicle.Read()
	if err != nil {
		return nil, err
	}

	prefixes, err := f.parser(buf)
	if err != nil {
		return nil, err
	}

	f.hash = md5.Sum(buf)
	f.updatedAt = time.Now()

	if f.interval > 0 && f.ticker == nil {
		f.ticker = time.NewTicker(f.interval)
		f.done = make(chan struct{}, 1)
		go f.pullLoop()
	}
	return prefixes, nil
}

func (f *fetcher) Update() ([]netip.Prefix, bool, error) {
	buf, err := f.vehicle.Read()
	if err != nil {
		return nil, false, err
	}

	hash := md5.Sum(buf)
	if bytes.Equal(f.hash[:], hash[:]) {
		f.updatedAt = time.Now()
		return nil, true, nil
	}

	prefixes, err := f.parser(buf)
	if err != nil {
		return nil, false, err
	}

	f.hash = hash
	f.updatedAt = time.Now()
	return prefixes, false, nil
}

func (f *fetcher) Destroy() {
	if f.ticker != nil {
		f.ticker.Stop()
		f.done <- struct{}{}
	}
}

func (f *fetcher) pullLoop() {
	for {
		select {
		case <-f.ticker.C:
			prefixes, same, err := f.Update()
			if err != nil {
				log.Warnln("[Provider] %s pull error: %s", f.name, err.Error())
				continue
			}
			if same {
				log.Debugln("[Provider] %s's payload doesn't change", f.name)
				continue
			}
			log.Infoln("[Provider] %s's payload update", f.name)
			if err := f.onUpdate(prefixes); err != nil {
				log.Warnln("[Provider] %s update error: %s", f.name, err.Error())
			}
		case <-f.done:
			return
		}
	}
}

func newFetcher(name string, interval time.Duration, vehicle Vehicle, parser parser, onUpdate func([]netip.Prefix) error) *fetcher {
	return &fetcher{
		name:     name,
		vehicle:  vehicle,
		interval: interval,
		parser:   parser,
		onUpdate: onUpdate,
	}
}
