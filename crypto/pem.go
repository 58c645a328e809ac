package crypto

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"errors"

	"github.com/btcsuite/btcd/btcec"
)

var ErrPrivateKeyParse = errors.New("could not parse private key")

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1      = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// pkcs8 reflects an ASN.1, PKCS #8 PrivateKey.
type pkcs8 struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// ecPrivateKey reflects an ASN.1 SEC 1 Elliptic Curve Private Key.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// ParsePEMPrivateKey accepts secp256k1 keys as produced by
//
//	openssl ecparam -name secp256k1 -genkey
//
// either in SEC 1 (EC PRIVATE KEY) or PKCS #8 (PRIVATE KEY) form.
func ParsePEMPrivateKey(data []byte) (PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return ZeroPrivateKey, ErrPrivateKeyParse
	}
	switch block.Type {
	case "EC PRIVATE KEY":
		return parseSEC1(block.Bytes, nil)
	case "PRIVATE KEY":
		var key pkcs8
		if _, err := asn1.Unmarshal(block.Bytes, &key); err != nil {
			return ZeroPrivateKey, ErrPrivateKeyParse
		}
		if !key.Algo.Algorithm.Equal(oidPublicKeyECDSA) {
			return ZeroPrivateKey, ErrPrivateKeyParse
		}
		var curve asn1.ObjectIdentifier
		if _, err := asn1.Unmarshal(key.Algo.Parameters.FullBytes, &curve); err != nil {
			return ZeroPrivateKey, ErrPrivateKeyParse
		}
		return parseSEC1(key.PrivateKey, curve)
	}
	return ZeroPrivateKey, ErrPrivateKeyParse
}

func parseSEC1(der []byte, curve asn1.ObjectIdentifier) (PrivateKey, error) {
	var sec1 ecPrivateKey
	if _, err := asn1.Unmarshal(der, &sec1); err != nil {
		return ZeroPrivateKey, ErrPrivateKeyParse
	}
	if curve == nil {
		curve = sec1.NamedCurveOID
	}
	if !curve.Equal(oidSecp256k1) || len(sec1.PrivateKey) > PrivateKeySize {
		return ZeroPrivateKey, ErrPrivateKeyParse
	}
	var key PrivateKey
	copy(key[PrivateKeySize-len(sec1.PrivateKey):], sec1.PrivateKey)
	if !key.IsValid() {
		return ZeroPrivateKey, ErrPrivateKeyParse
	}
	return key, nil
}

// EncodePEMPrivateKey encodes the key as a SEC 1 EC PRIVATE KEY block.
func EncodePEMPrivateKey(key PrivateKey) ([]byte, error) {
	if !key.IsValid() {
		return nil, ErrInvalidKey
	}
	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), key[:])
	uncompressed := pub.SerializeUncompressed()
	der, err := asn1.Marshal(ecPrivateKey{
		Version:       1,
		PrivateKey:    key[:],
		NamedCurveOID: oidSecp256k1,
		PublicKey:     asn1.BitString{Bytes: uncompressed, BitLength: 8 * len(uncompressed)},
	})
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}
