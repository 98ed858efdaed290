package validators

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	mx    map[string][]*net.MX
	hosts map[string][]string
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := f.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (f fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if h, ok := f.hosts[host]; ok {
		return h, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainResolves(t *testing.T) {
	r := fakeResolver{
		mx:    map[string][]*net.MX{"mail.test": {{Host: "mx.mail.test.", Pref: 10}}},
		hosts: map[string][]string{"a-only.test": {"192.0.2.1"}},
	}
	ctx := context.Background()

	assert.True(t, EmailDomainResolves(ctx, r, "asha@mail.test"))
	assert.True(t, EmailDomainResolves(ctx, r, "asha@a-only.test"))
	assert.False(t, EmailDomainResolves(ctx, r, "asha@nowhere.test"))
	assert.False(t, EmailDomainResolves(ctx, r, "asha@"))
	assert.False(t, EmailDomainResolves(ctx, r, "no-at-sign"))
}
