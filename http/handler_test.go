// SPDX-License-Identifier: Apache-2.0
package http

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golang-auth/go-secnego"
)

// fakeProvider accepts any token equal to its password in one round and
// answers with a fixed reply token.
type fakeProvider struct {
	password  []byte
	reply     []byte
	principal string
	needMore  bool
}

type fakeContext struct{}

type fakeCred struct{}

func (c *fakeCred) Release() error { return nil }

type fakeIdentity struct{ name string }

func (i *fakeIdentity) Principal() string { return i.name }
func (i *fakeIdentity) Close() error      { return nil }

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) NegotiateStep(cred secnego.Credential, ctx secnego.ContextHandle, input, output []secnego.Buffer, flags secnego.ContextFlag, rep secnego.DataRep) (secnego.StepResult, error) {
	res := secnego.StepResult{Context: &fakeContext{}}

	if p.needMore {
		res.Status = secnego.StatusContinueNeeded
		return res, nil
	}

	in := secnego.FindBuffer(input, secnego.BufferTypeToken)
	if in == nil || string(in.Data) != string(p.password) {
		res.Status = secnego.StatusLogonDenied
		return res, nil
	}

	if err := secnego.FindBuffer(output, secnego.BufferTypeToken).SetBytes(p.reply); err != nil {
		return res, err
	}
	res.Status = secnego.StatusOK

	return res, nil
}

func (p *fakeProvider) CompleteToken(ctx secnego.ContextHandle, output []secnego.Buffer) error {
	return nil
}

func (p *fakeProvider) QueryAccessToken(ctx secnego.ContextHandle) (secnego.AccessToken, error) {
	return &fakeIdentity{name: p.principal}, nil
}

func (p *fakeProvider) Impersonate(ctx secnego.ContextHandle) error   { return nil }
func (p *fakeProvider) RevertToSelf(ctx secnego.ContextHandle) error  { return nil }
func (p *fakeProvider) DeleteContext(ctx secnego.ContextHandle) error { return nil }

func newTestHandler(p *fakeProvider) *Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := GetPeerName(r)
		if ok {
			fmt.Fprintf(w, "hello, %s", name.PrincipalName)
		}
	})

	return NewHandler(p, &fakeCred{}, next)
}

func TestHandlerChallengesAnonymousRequest(t *testing.T) {
	handler := newTestHandler(&fakeProvider{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Negotiate", rec.Header().Get("WWW-Authenticate"))
}

func TestHandlerAcceptsValidToken(t *testing.T) {
	p := &fakeProvider{
		password:  []byte("open-sesame"),
		reply:     []byte("ap-rep"),
		principal: "user@EXAMPLE.COM",
	}
	handler := newTestHandler(p)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Negotiate "+base64.StdEncoding.EncodeToString([]byte("open-sesame")))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello, user@EXAMPLE.COM", rec.Body.String())

	// mutual authentication reply rides back on the response
	wantReply := base64.StdEncoding.EncodeToString([]byte("ap-rep"))
	assert.Equal(t, "Negotiate "+wantReply, rec.Header().Get("WWW-Authenticate"))
}

func TestHandlerRejectsBadToken(t *testing.T) {
	p := &fakeProvider{
		password: []byte("open-sesame"),
	}
	handler := newTestHandler(p)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Negotiate "+base64.StdEncoding.EncodeToString([]byte("wrong")))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandlerRejectsUndecodableToken(t *testing.T) {
	handler := newTestHandler(&fakeProvider{})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Negotiate not!base64!")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerRejectsMultiRoundMechanism(t *testing.T) {
	handler := newTestHandler(&fakeProvider{needMore: true})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Negotiate "+base64.StdEncoding.EncodeToString([]byte("round-1")))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerIgnoresOtherSchemes(t *testing.T) {
	handler := newTestHandler(&fakeProvider{})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Negotiate", rec.Header().Get("WWW-Authenticate"))
}
