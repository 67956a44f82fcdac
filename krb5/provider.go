// SPDX-License-Identifier: Apache-2.0

package krb5

import (
	"encoding/asn1"
	"fmt"
	"time"

	"github.com/jcmturner/gokrb5/v8/asn1tools"
	"github.com/jcmturner/gokrb5/v8/crypto"
	"github.com/jcmturner/gokrb5/v8/messages"
	"github.com/jcmturner/gokrb5/v8/service"
	"github.com/jcmturner/gokrb5/v8/types"

	"github.com/golang-auth/go-secnego"
)

func init() {
	secnego.RegisterProvider("kerberos", func() (secnego.Provider, error) {
		return &Provider{}, nil
	})
}

// Provider implements the secnego.Provider contract using gokrb5.  The
// whole exchange fits in one round: the initiator's AP-REQ establishes the
// context, and the optional AP-REP rides back on the same round.
type Provider struct{}

// contextState is the established context behind the opaque handle.
type contextState struct {
	principal string
	realm     string
	key       types.EncryptionKey
	expiry    time.Time
}

type identity struct {
	principal string
	realm     string
}

func (i *identity) Principal() string {
	return i.principal + "@" + i.realm
}

func (i *identity) Close() error { return nil }

func (p *Provider) Name() string { return "kerberos" }

func (p *Provider) NegotiateStep(cred secnego.Credential, ctx secnego.ContextHandle, input, output []secnego.Buffer, flags secnego.ContextFlag, rep secnego.DataRep) (secnego.StepResult, error) {
	res := secnego.StepResult{Context: ctx}

	if ctx != nil {
		// the context was established by the first round; any further
		// token from the peer is a protocol violation
		res.Status = secnego.StatusOutOfSequence
		return res, nil
	}

	kcred, ok := cred.(*Credential)
	if !ok {
		return res, fmt.Errorf("credential was not acquired by the kerberos provider")
	}

	in := secnego.FindBuffer(input, secnego.BufferTypeToken)
	if in == nil || len(in.Data) == 0 {
		res.Status = secnego.StatusInvalidToken
		return res, nil
	}

	apReqBytes, err := unwrapInitialToken(in.Data)
	if err != nil {
		res.Status = secnego.StatusInvalidToken
		return res, nil
	}

	var apReq messages.APReq
	if err := apReq.Unmarshal(apReqBytes); err != nil {
		res.Status = secnego.StatusInvalidToken
		return res, nil
	}

	settings := service.NewSettings(kcred.kt,
		service.MaxClockSkew(kcred.skew),
		service.DecodePAC(false),
		service.KeytabPrincipal(kcred.principal),
	)

	verified, _, err := service.VerifyAPREQ(&apReq, settings)
	if err != nil || !verified {
		res.Status = secnego.StatusLogonDenied
		return res, nil
	}

	sessionKey := apReq.Ticket.DecryptedEncPart.Key
	if err := apReq.DecryptAuthenticator(sessionKey); err != nil {
		res.Status = secnego.StatusLogonDenied
		return res, nil
	}

	// a subkey in the authenticator replaces the ticket session key for
	// everything after context establishment (RFC 4120)
	contextKey := sessionKey
	if hasSubkey(apReq) {
		contextKey = apReq.Authenticator.SubKey
	}

	granted := secnego.ContextFlagReplayDetect |
		secnego.ContextFlagSequenceDetect |
		secnego.ContextFlagConf |
		secnego.ContextFlagInteg |
		secnego.ContextFlagConnection

	// AP options bit 2 (MSB numbering) is mutual-required.  An initiator
	// that does not set it treats any reply token as an error, so the
	// AP-REP is built only on request.
	mutual := len(apReq.APOptions.Bytes) > 0 && apReq.APOptions.Bytes[0]&0x20 != 0

	var outToken []byte
	if mutual {
		outToken, err = buildAPRep(apReq, sessionKey)
		if err != nil {
			return res, fmt.Errorf("build AP-REP: %w", err)
		}
		granted |= secnego.ContextFlagMutualAuth
	}

	out := secnego.FindBuffer(output, secnego.BufferTypeToken)
	if out == nil {
		return res, fmt.Errorf("no output token buffer supplied")
	}
	if err := out.SetBytes(outToken); err != nil {
		return res, err
	}

	enc := apReq.Ticket.DecryptedEncPart
	res.Context = &contextState{
		principal: enc.CName.PrincipalNameString(),
		realm:     enc.CRealm,
		key:       contextKey,
		expiry:    enc.EndTime,
	}
	res.Status = secnego.StatusOK
	res.Flags = granted
	res.Expiry = secnego.Lifetime{Status: secnego.LifetimeAvailable, ExpiresAt: enc.EndTime}

	return res, nil
}

// CompleteToken is never required by this provider: no round reports a
// completion status.
func (p *Provider) CompleteToken(ctx secnego.ContextHandle, output []secnego.Buffer) error {
	return nil
}

func (p *Provider) QueryAccessToken(ctx secnego.ContextHandle) (secnego.AccessToken, error) {
	state, ok := ctx.(*contextState)
	if !ok {
		return nil, fmt.Errorf("context was not established by the kerberos provider")
	}

	return &identity{principal: state.principal, realm: state.realm}, nil
}

func (p *Provider) Impersonate(ctx secnego.ContextHandle) error {
	return fmt.Errorf("impersonation is not available with the pure Go kerberos provider: %w", secnego.ErrUnsupported)
}

func (p *Provider) RevertToSelf(ctx secnego.ContextHandle) error {
	return fmt.Errorf("impersonation is not available with the pure Go kerberos provider: %w", secnego.ErrUnsupported)
}

func (p *Provider) DeleteContext(ctx secnego.ContextHandle) error {
	state, ok := ctx.(*contextState)
	if !ok {
		return fmt.Errorf("context was not established by the kerberos provider")
	}

	// scrub the context key before the state is garbage collected
	clear(state.key.KeyValue)
	state.key = types.EncryptionKey{}

	return nil
}

// buildAPRep constructs the mutual authentication reply.  Echoing the
// authenticator's ctime and cusec under the session key proves the service
// ticket was decrypted; a client subkey is echoed back so the initiator
// knows it was accepted.
func buildAPRep(apReq messages.APReq, sessionKey types.EncryptionKey) ([]byte, error) {
	part := messages.EncAPRepPart{
		CTime: apReq.Authenticator.CTime,
		Cusec: apReq.Authenticator.Cusec,
	}
	if hasSubkey(apReq) {
		part.Subkey = apReq.Authenticator.SubKey
	}

	partInner, err := asn1.Marshal(part)
	if err != nil {
		return nil, fmt.Errorf("marshal EncAPRepPart: %w", err)
	}
	// EncAPRepPart is ASN.1 APPLICATION 27 (RFC 4120 section 5.5.2)
	partBytes := asn1tools.AddASNAppTag(partInner, 27)

	// key usage 12 covers the AP-REP encrypted part
	encrypted, err := crypto.GetEncryptedData(partBytes, sessionKey, 12, 0)
	if err != nil {
		return nil, fmt.Errorf("encrypt EncAPRepPart: %w", err)
	}

	apRep := messages.APRep{
		PVNO:    5,
		MsgType: 15, // KRB_AP_REP
		EncPart: encrypted,
	}

	apRepInner, err := asn1.Marshal(apRep)
	if err != nil {
		return nil, fmt.Errorf("marshal AP-REP: %w", err)
	}
	// AP-REP is ASN.1 APPLICATION 15
	apRepBytes := asn1tools.AddASNAppTag(apRepInner, 15)

	return wrapToken(apRepBytes, tokenIDAPRep), nil
}

func hasSubkey(apReq messages.APReq) bool {
	return apReq.Authenticator.SubKey.KeyType != 0 &&
		len(apReq.Authenticator.SubKey.KeyValue) > 0
}
