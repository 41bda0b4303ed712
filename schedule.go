package hpke

// modeFrom maps the supplied optional material to the RFC 9180 mode byte.
func modeFrom(hasPSK, hasAuth bool) byte {
	switch {
	case hasPSK && hasAuth:
		return modeAuthPSK
	case hasPSK:
		return modePSK
	case hasAuth:
		return modeAuth
	default:
		return modeBase
	}
}

// keySchedule derives a context from the KEM shared secret (RFC 9180
// §5.1): hash the PSK identifier and info into the key schedule context,
// extract the secret with the shared secret as salt, then expand the
// exporter secret and, for AEAD suites, the key and base nonce. Option
// validation happens before the shared secret exists, so inputs arriving
// here already satisfy the length invariants.
func (s *CipherSuite) keySchedule(mode byte, sharedSecret, info []byte, psk *PSK) (*encdecContext, error) {
	var pskKey, pskID []byte
	if psk != nil {
		pskKey, pskID = psk.Key, psk.ID
	}

	pskIDHash := s.kdfID.labeledExtract(s.id, nil, "psk_id_hash", pskID)
	infoHash := s.kdfID.labeledExtract(s.id, nil, "info_hash", info)

	ksContext := make([]byte, 0, 1+len(pskIDHash)+len(infoHash))
	ksContext = append(ksContext, mode)
	ksContext = append(ksContext, pskIDHash...)
	ksContext = append(ksContext, infoHash...)

	secret := s.kdfID.labeledExtract(s.id, sharedSecret, "secret", pskKey)
	defer zeroize(secret)

	exporterSecret, err := s.kdfID.labeledExpand(s.id, secret, "exp", ksContext, s.kdfID.ExtractSize())
	if err != nil {
		return nil, err
	}

	ctx := &encdecContext{
		suite:          s,
		exporterSecret: exporterSecret,
	}
	if s.aeadID == ExportOnly {
		return ctx, nil
	}

	key, err := s.kdfID.labeledExpand(s.id, secret, "key", ksContext, s.aeadID.KeySize())
	if err != nil {
		return nil, err
	}
	baseNonce, err := s.kdfID.labeledExpand(s.id, secret, "base_nonce", ksContext, s.aeadID.NonceSize())
	if err != nil {
		zeroize(key)
		return nil, err
	}
	aead, err := s.aeadID.newCipher(key)
	if err != nil {
		zeroize(key)
		zeroize(baseNonce)
		return nil, err
	}

	ctx.key = key
	ctx.baseNonce = baseNonce
	ctx.cipher = aead
	ctx.limit = maxSequence(len(baseNonce))
	return ctx, nil
}
