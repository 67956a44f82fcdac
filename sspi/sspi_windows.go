// SPDX-License-Identifier: Apache-2.0

//go:build windows

package sspi

import (
	"encoding/binary"
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"github.com/alexbrainman/sspi"

	"github.com/golang-auth/go-secnego"
)

func init() {
	secnego.RegisterProvider("sspi", func() (secnego.Provider, error) {
		return &Provider{}, nil
	})
}

var (
	secur32 = syscall.NewLazyDLL("secur32.dll")

	procQueryContextAttributesW    = secur32.NewProc("QueryContextAttributesW")
	procQuerySecurityContextToken  = secur32.NewProc("QuerySecurityContextToken")
	procImpersonateSecurityContext = secur32.NewProc("ImpersonateSecurityContext")
	procRevertSecurityContext      = secur32.NewProc("RevertSecurityContext")
)

const (
	secPkgAttrLifespan = 2
	secPkgAttrFlags    = 14
)

type secPkgContextFlags struct {
	Flags uint32
}

type secPkgContextLifespan struct {
	Start  syscall.Filetime
	Expiry syscall.Filetime
}

// secError converts a non-zero SECURITY_STATUS from a raw secur32 call into
// an error carrying the native code.
func secError(op string, code uintptr) error {
	return fmt.Errorf("%s: %w", op, &secnego.AuthError{Code: secnego.Status(code)})
}

// Credential wraps an inbound SSPI credentials handle for the current
// process identity.
type Credential struct {
	cred     *sspi.Credentials
	maxToken uint32
}

// AcquireCredential obtains inbound credentials for the given security
// package.  An empty packageName selects Negotiate.
func AcquireCredential(packageName string) (*Credential, error) {
	if packageName == "" {
		packageName = sspi.NEGOSSP_NAME
	}

	pkgInfo, err := sspi.QueryPackageInfo(packageName)
	if err != nil {
		return nil, fmt.Errorf("query security package %q: %w", packageName, err)
	}

	cred, err := sspi.AcquireCredentials("", packageName, sspi.SECPKG_CRED_INBOUND, nil)
	if err != nil {
		return nil, fmt.Errorf("acquire credentials for %q: %w", packageName, err)
	}

	return &Credential{cred: cred, maxToken: pkgInfo.MaxToken}, nil
}

// Release frees the credentials handle.  Must not be called while any
// acceptor still borrows the credential.
func (c *Credential) Release() error {
	if c.cred == nil {
		return nil
	}

	err := c.cred.Release()
	c.cred = nil

	return err
}

// Provider implements the secnego.Provider contract over the native SSPI
// acceptor calls.
type Provider struct{}

type contextState struct {
	ctx *sspi.Context
}

func (p *Provider) Name() string { return "sspi" }

func (p *Provider) NegotiateStep(cred secnego.Credential, ctx secnego.ContextHandle, input, output []secnego.Buffer, flags secnego.ContextFlag, rep secnego.DataRep) (secnego.StepResult, error) {
	res := secnego.StepResult{Context: ctx}

	var state *contextState
	if ctx == nil {
		scred, ok := cred.(*Credential)
		if !ok {
			return res, fmt.Errorf("credential was not acquired by the sspi provider")
		}
		// the ContextFlag bit assignments are the native ASC_REQ_* values,
		// so the mask passes straight through
		state = &contextState{ctx: sspi.NewServerContext(scred.cred, uint32(flags))}
		res.Context = state
	} else {
		var ok bool
		state, ok = ctx.(*contextState)
		if !ok {
			return res, fmt.Errorf("context was not established by the sspi provider")
		}
	}

	in := secnego.FindBuffer(input, secnego.BufferTypeToken)
	if in == nil {
		return res, fmt.Errorf("no input token buffer supplied")
	}
	out := secnego.FindBuffer(output, secnego.BufferTypeToken)
	if out == nil {
		return res, fmt.Errorf("no output token buffer supplied")
	}

	var inBuf [2]sspi.SecBuffer
	inBuf[0].Set(sspi.SECBUFFER_TOKEN, in.Data)
	inBufs := &sspi.SecBufferDesc{
		Version:      sspi.SECBUFFER_VERSION,
		BuffersCount: 1,
		Buffers:      &inBuf[0],
	}
	if cb := secnego.FindBuffer(input, secnego.BufferTypeChannelBindings); cb != nil {
		inBuf[1].Set(sspi.SECBUFFER_CHANNEL_BINDINGS, wrapChannelBindings(cb.Data))
		inBufs.BuffersCount = 2
	}

	dst := make([]byte, out.Cap())
	var outBuf [1]sspi.SecBuffer
	outBuf[0].Set(sspi.SECBUFFER_TOKEN, dst)
	outBufs := &sspi.SecBufferDesc{
		Version:      sspi.SECBUFFER_VERSION,
		BuffersCount: 1,
		Buffers:      &outBuf[0],
	}

	ret := state.ctx.Update(nil, outBufs, inBufs)
	res.Status = secnego.Status(uint32(ret))

	if res.Status.IsError() {
		return res, nil
	}

	n := int(outBuf[0].BufferSize)
	if err := out.SetBytes(dst[:n]); err != nil {
		return res, err
	}

	res.Flags = p.queryFlags(state)
	res.Expiry = p.queryLifespan(state)

	return res, nil
}

func (p *Provider) CompleteToken(ctx secnego.ContextHandle, output []secnego.Buffer) error {
	state, ok := ctx.(*contextState)
	if !ok {
		return fmt.Errorf("context was not established by the sspi provider")
	}

	out := secnego.FindBuffer(output, secnego.BufferTypeToken)
	if out == nil {
		return fmt.Errorf("no output token buffer supplied")
	}

	var outBuf [1]sspi.SecBuffer
	outBuf[0].Set(sspi.SECBUFFER_TOKEN, out.Data)
	outBufs := &sspi.SecBufferDesc{
		Version:      sspi.SECBUFFER_VERSION,
		BuffersCount: 1,
		Buffers:      &outBuf[0],
	}

	ret := sspi.CompleteAuthToken(state.ctx.Handle, outBufs)
	if ret != sspi.SEC_E_OK {
		return secError("CompleteAuthToken", uintptr(uint32(ret)))
	}

	return nil
}

// accessToken is the Windows token of the authenticated peer.
type accessToken struct {
	token     syscall.Token
	principal string
}

func (t *accessToken) Principal() string { return t.principal }

func (t *accessToken) Close() error {
	return t.token.Close()
}

func (p *Provider) QueryAccessToken(ctx secnego.ContextHandle) (secnego.AccessToken, error) {
	state, ok := ctx.(*contextState)
	if !ok {
		return nil, fmt.Errorf("context was not established by the sspi provider")
	}

	var token syscall.Token
	r1, _, _ := procQuerySecurityContextToken.Call(
		uintptr(unsafe.Pointer(state.ctx.Handle)),
		uintptr(unsafe.Pointer(&token)),
	)
	if r1 != 0 {
		return nil, secError("QuerySecurityContextToken", r1)
	}

	tu, err := token.GetTokenUser()
	if err != nil {
		token.Close()
		return nil, fmt.Errorf("get token user: %w", err)
	}

	account, domain, _, err := tu.User.Sid.LookupAccount("")
	if err != nil {
		token.Close()
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	return &accessToken{token: token, principal: domain + `\` + account}, nil
}

func (p *Provider) Impersonate(ctx secnego.ContextHandle) error {
	state, ok := ctx.(*contextState)
	if !ok {
		return fmt.Errorf("context was not established by the sspi provider")
	}

	r1, _, _ := procImpersonateSecurityContext.Call(uintptr(unsafe.Pointer(state.ctx.Handle)))
	if r1 != 0 {
		return secError("ImpersonateSecurityContext", r1)
	}

	return nil
}

func (p *Provider) RevertToSelf(ctx secnego.ContextHandle) error {
	state, ok := ctx.(*contextState)
	if !ok {
		return fmt.Errorf("context was not established by the sspi provider")
	}

	r1, _, _ := procRevertSecurityContext.Call(uintptr(unsafe.Pointer(state.ctx.Handle)))
	if r1 != 0 {
		return secError("RevertSecurityContext", r1)
	}

	return nil
}

func (p *Provider) DeleteContext(ctx secnego.ContextHandle) error {
	state, ok := ctx.(*contextState)
	if !ok {
		return fmt.Errorf("context was not established by the sspi provider")
	}

	return state.ctx.Release()
}

// queryFlags returns the attributes established so far.  A query failure is
// not fatal; the round simply reports no attributes.
func (p *Provider) queryFlags(state *contextState) secnego.ContextFlag {
	var f secPkgContextFlags
	r1, _, _ := procQueryContextAttributesW.Call(
		uintptr(unsafe.Pointer(state.ctx.Handle)),
		secPkgAttrFlags,
		uintptr(unsafe.Pointer(&f)),
	)
	if r1 != 0 {
		return 0
	}

	return secnego.ContextFlag(f.Flags)
}

func (p *Provider) queryLifespan(state *contextState) secnego.Lifetime {
	var ls secPkgContextLifespan
	r1, _, _ := procQueryContextAttributesW.Call(
		uintptr(unsafe.Pointer(state.ctx.Handle)),
		secPkgAttrLifespan,
		uintptr(unsafe.Pointer(&ls)),
	)
	if r1 != 0 {
		return secnego.Lifetime{Status: secnego.LifetimeIndefinite}
	}

	expiry := filetimeToTime(ls.Expiry)
	if expiry.IsZero() {
		return secnego.Lifetime{Status: secnego.LifetimeIndefinite}
	}

	return secnego.Lifetime{Status: secnego.LifetimeAvailable, ExpiresAt: expiry}
}

// The packages report "never expires" as either zero or the maximum
// positive FILETIME.
func filetimeToTime(ft syscall.Filetime) time.Time {
	v := uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)
	if v == 0 || v >= uint64(1)<<63-1 {
		return time.Time{}
	}

	return time.Unix(0, ft.Nanoseconds())
}

// wrapChannelBindings lays the application data out as a native
// SEC_CHANNEL_BINDINGS structure: a 32 byte header of eight uint32 fields
// followed by the data, with only the application data length and offset
// populated.
func wrapChannelBindings(appData []byte) []byte {
	const headerSize = 32

	buf := make([]byte, headerSize+len(appData))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(appData)))
	binary.LittleEndian.PutUint32(buf[28:32], headerSize)
	copy(buf[headerSize:], appData)

	return buf
}
