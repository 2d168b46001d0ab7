package provider

import (
	"encoding/json"
	"net/netip"
	"runtime"
	"time"

	"github.com/ipcheck/ipcheck/component/filter"

	"go.uber.org/atomic"
)

// RuleProvider owns one named range set: it loads CIDR entries through its
// vehicle, compiles them into a filter, and republishes the compiled filter
// atomically so queries never observe a half-built one.
type RuleProvider interface {
	Name() string
	VehicleType() VehicleType
	Format() Format
	RuleCount() int
	Initial() error
	Update() error
	Filter() *filter.Filter
	Search(ip string) bool
}

type ruleSetProvider struct {
	*fetcher
	format   Format
	encoding filter.Encoding
	count    int
	filter   atomic.Value // *filter.Filter
}

type RuleSetProvider struct {
	*ruleSetProvider
}

func NewRuleSetProvider(name string, format Format, encoding filter.Encoding, interval time.Duration, vehicle Vehicle) RuleProvider {
	rp := &ruleSetProvider{
		format:   format,
		encoding: encoding,
	}

	onUpdate := func(prefixes []netip.Prefix) error {
		compiled, err := filter.New(prefixes, rp.encoding)
		if err != nil {
			return err
		}
		rp.count = len(prefixes)
		rp.filter.Store(compiled)
		return nil
	}

	fetcher := newFetcher(name, interval, vehicle, func(buf []byte) ([]netip.Prefix, error) {
		return ParsePayload(buf, format)
	}, onUpdate)
	rp.fetcher = fetcher

	wrapper := &RuleSetProvider{rp}
	runtime.SetFinalizer(wrapper, stopRuleSetProvider)
	return wrapper
}

func (rp *ruleSetProvider) Format() Format {
	return rp.format
}

func (rp *ruleSetProvider) RuleCount() int {
	return rp.count
}

func (rp *ruleSetProvider) Initial() error {
	prefixes, err := rp.fetcher.Initial()
	if err != nil {
		return err
	}
	return rp.fetcher.onUpdate(prefixes)
}

func (rp *ruleSetProvider) Update() error {
	prefixes, same, err := rp.fetcher.Update()
	if err == nil && !same {
		return rp.fetcher.onUpdate(prefixes)
	}
	return err
}

func (rp *ruleSetProvider) Filter() *filter.Filter {
	if f, ok := rp.filter.Load().(*filter.Filter); ok {
		return f
	}
	return nil
}

func (rp *ruleSetProvider) Search(ip string) bool {
	f := rp.Filter()
	return f != nil && f.Matches(ip)
}

func (rp *ruleSetProvider) MarshalJSON() ([]byte, error) {
	return json.Marshal(
		map[string]interface{}{
			"name":        rp.Name(),
			"format":      rp.Format().String(),
			"ruleCount":   rp.RuleCount(),
			"updatedAt":   rp.updatedAt,
			"vehicleType": rp.VehicleType().String(),
		})
}

func stopRuleSetProvider(rp *RuleSetProvider) {
	rp.fetcher.Destroy()
}
