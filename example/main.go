package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/two-party-ecdsa/internal/test"
	"github.com/taurusgroup/two-party-ecdsa/pkg/ecdsa"
	"github.com/taurusgroup/two-party-ecdsa/pkg/math/curve"
	"github.com/taurusgroup/two-party-ecdsa/pkg/party"
	"github.com/taurusgroup/two-party-ecdsa/pkg/pool"
	"github.com/taurusgroup/two-party-ecdsa/pkg/protocol"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17"
	"github.com/taurusgroup/two-party-ecdsa/protocols/lindell17/keygen"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

func main() {
	var (
		message = flag.String("message", "hello", "message to sign")
		blinded = flag.Bool("blinded", false, "also run the blinded signature")
		fast    = flag.Bool("fast", true, "use precomputed primes instead of generating a Paillier key")
		debug   = flag.Bool("debug", false, "log round transitions")
		keccak  = flag.Bool("keccak", false, "sign the Keccak-256 digest of the Ethereum personal message instead of its BLAKE3 digest")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := run(log, *message, *blinded, *fast, *keccak); err != nil {
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, message string, blinded, fast, keccak bool) error {
	group := curve.Secp256k1{}
	pl := pool.NewPool(0)

	var pre *keygen.PreParams
	if fast {
		p, q := test.SafePrimePair(0)
		auxP, auxQ := test.SafePrimePair(1)
		var err error
		if pre, err = keygen.NewPreParams(p, q, auxP, auxQ); err != nil {
			return err
		}
	} else {
		log.Info().Msg("generating Paillier key and auxiliary parameters, this may take a while")
		start := time.Now()
		pre = keygen.GeneratePreParams(pl)
		log.Info().Dur("took", time.Since(start)).Msg("generated pre-parameters")
	}

	ids := party.IDSlice{"party-1", "party-2"}
	net := newNetwork(ids)
	defer net.Close()

	metrics, err := protocol.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	p1, err := newNode(ids[0], net, log, metrics)
	if err != nil {
		return err
	}
	p2, err := newNode(ids[1], net, log, metrics)
	if err != nil {
		return err
	}
	go p1.receive()
	go p2.receive()

	chainCode := make([]byte, 32)
	r1, r2, err := execute(p1, p2,
		lindell17.Keygen1(group, p1.id, p2.id, chainCode, pre, pl),
		lindell17.Keygen2(group, p2.id, p1.id, chainCode, nil, pl),
		true)
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}
	mk1, mk2 := r1.(*lindell17.MasterKey1), r2.(*lindell17.MasterKey2)
	Q, err := mk1.PublicKey().MarshalBinary()
	if err != nil {
		return err
	}
	log.Info().Str("public_key", hex.EncodeToString(Q)).Msg("key generated")

	digest := messageDigest(message, keccak)

	r2, _, err = execute(p2, p1,
		lindell17.Sign2(mk2, p2.id, p1.id, digest, pl),
		lindell17.Sign1(mk1, p1.id, p2.id, digest, pl),
		true)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	if err = report(log, "signature", mk2, r2.(*ecdsa.Signature), digest); err != nil {
		return err
	}

	if !blinded {
		return nil
	}
	r2, r1, err = execute(p2, p1,
		lindell17.SignBlinded2(mk2, p2.id, p1.id, digest, pl),
		lindell17.SignBlinded1(mk1, p1.id, p2.id, pl),
		true)
	if err != nil {
		return fmt.Errorf("blinded sign: %w", err)
	}
	if _, ok := r1.(*lindell17.BlindedSignature); ok {
		log.Info().Msg("party 1 only learned the blinded signature")
	}
	return report(log, "blinded signature", mk2, r2.(*ecdsa.Signature), digest)
}

func messageDigest(message string, keccak bool) []byte {
	if !keccak {
		d := blake3.Sum256([]byte(message))
		return d[:]
	}
	h := sha3.NewLegacyKeccak256()
	_, _ = fmt.Fprintf(h, "\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return h.Sum(nil)
}

func report(log zerolog.Logger, name string, mk *lindell17.MasterKey2, sig *ecdsa.Signature, digest []byte) error {
	if !sig.Verify(mk.PublicKey(), digest) {
		return fmt.Errorf("%s does not verify", name)
	}
	der, err := sig.SerializeDER()
	if err != nil {
		return err
	}
	recovered, err := sig.RecoverPublicKey(digest)
	if err != nil {
		return err
	}
	eth, err := sig.SigEthereum()
	if err != nil {
		return err
	}
	pub, err := ecdsa.ToBtcec(mk.PublicKey())
	if err != nil {
		return err
	}
	parsed, err := btcecdsa.ParseDERSignature(der)
	if err != nil {
		return err
	}
	log.Info().
		Str("public_key", hex.EncodeToString(pub.SerializeCompressed())).
		Str("der", hex.EncodeToString(der)).
		Bool("btcec_verifies", parsed.Verify(digest, pub)).
		Str("ethereum", hex.EncodeToString(eth)).
		Uint8("recovery_id", sig.RecoveryID()).
		Bool("recovers_public_key", recovered.Equal(mk.PublicKey())).
		Msg(name)
	return nil
}
