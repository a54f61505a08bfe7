package params

const (
	SecParam  = 256
	SecBytes  = SecParam / 8
	StatParam = 80

	// BitsBlumPrime is the size of each safe prime factor of a Paillier or ring-Pedersen modulus.
	BitsBlumPrime = 4 * SecParam      // = 1024
	BitsPaillier  = 2 * BitsBlumPrime // = 2048
	BytesPaillier = BitsPaillier / 8  // = 256

	BitsIntModN  = BitsPaillier    // = 2048
	BytesIntModN = BitsIntModN / 8 // = 256

	BytesCiphertext = 2 * BytesPaillier // = 512

	// CorrectKeyIterations is the number of N-th roots revealed in the proof of a correct Paillier key.
	// The soundness error is 1/P^M where P is the smallest prime not excluded by CorrectKeyPrimeBound.
	CorrectKeyIterations = 11
	// CorrectKeyPrimeBound is the bound below which the verifier rejects any modulus with a prime factor.
	CorrectKeyPrimeBound = 6370

	// PDLSlack is the bit length of the commitment randomness α in the PDL proof, which hides
	// a witness of at most SecParam bits with StatParam bits of slack on a 2⁻ᴷ challenge space.
	PDLSlack = 3 * SecParam // = 768

	// CompositeDLogChallenge is the challenge length, in bits, of the composite discrete log proof.
	CompositeDLogChallenge = 128
	// CompositeDLogSecurity is the statistical hiding parameter of the composite discrete log proof.
	CompositeDLogSecurity = 128
)
