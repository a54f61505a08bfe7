package test

import (
	"encoding/hex"

	"github.com/cronokirby/saferith"
)

// safePrimes are 1024-bit safe primes with their two most significant bits set,
// so that the product of any two of them is exactly 2048 bits long.
//
// Generating safe primes takes seconds to minutes, so tests use these instead.
var safePrimes = []string{
	"eaa38b00d8b7d44df302688b2fc49feedb4650cad42833f8a1ac5ce26729f03f" +
		"a5f426ed723d5776cbdee1f1c5e38f1865c258f46aa50dc1fc6d80ff86424f1d" +
		"b1899e9e2d26367671ff2f44313a3f27d0ad74eee046e26952a7432dae9c21f2" +
		"3bdcc8916aff75570b690655ba27c9f210e6fb7a1c2eea82b093edc1845a9c87",
	"d307c28fbd9f045c13bd308de2e0f2420da333ecc87887b1a680416c7b265636" +
		"cb166d4a445f28c4c9722160c54524ab5af86747a30b7d5cc37ce2d9d902d5d0" +
		"6a656588cd81143f6d33188b13f23ac0a471147be2af0cbe83811c1875913665" +
		"a059c23282a30cc676b8f484a9d85537a5c4860d1351095a1faa2f9132d086a3",
	"f48902935ad5d83e80fe6f6ca0ab45a55a1d76c59902a0b4e1f6ca4229125e2e" +
		"3ae8268c957a8ad2020eb3175adc06e5514d4be252ffc7061096643395dca8cf" +
		"71bd5d41b40fd2c6a38bd003fad65152a5f25466b8355c0d16ed45c796132634" +
		"37e748d0ba6ce78b2b442abe512c7ec900d9d17011d9ddddc5925b841efe0e5f",
	"dd9b35c66405f6a395618ae11758695274bd8698228fb60e171a91dfa348b5b9" +
		"c55f4352a7e492128c5906337f52347d57811de8bc7bde9cb14e8b4abac42940" +
		"ff4226795cc2fa008396295dc365f7935163d2fc7320df548bd5e27c841f1a49" +
		"6a7811c356cf1965f46aa50d867abfc245dcafcf8c58ca72330de7e5fd9112b3",
	"f309436d18df2224a6a6442d1a82a604b9cda264d7b759ab72672de56f8fb654" +
		"25a23e8d9d7d1cb6aee97fe4d728b20e3392da87c8510244127ec507b2213ec1" +
		"4009c1263f94958bf5ef6ff9821d9baee510c0a05a1e515a7ed3b5fea8d8d89f" +
		"ec83ff0f79fb3e41950e22ac686542d87349471e3f69fe021e54d996366f772b",
	"f518c63b49d8eb8e1e9c03e0fcc617af5101338ce1d9b343598cdac6ee395252" +
		"84e940df3d9840696448deffa7d57e4c5906048fb38585c5a33190c04e110a57" +
		"144c6b5e6f8efee6ca97ac0cba33a757ed88f0c6569d82368e24f586dd5c9dfb" +
		"ebeae412c091b7470417a96452500b3511704912aceecda9af17f32da273d817",
	"f93c0c39b70097220cd711ff2ce9aae316e8bdf2037b908cc3079f7648b7cd50" +
		"bb08390c17c123de72228e8564676901945d3cc0955153052b54150b78ac5154" +
		"2b29c027f218fa73ded880a4d76d9c63e6e5d8f62d381b1038ee1516fd8530ac" +
		"89366d0bb3fd3279139ab18f729a029523bd6796a929a5c3fc571e72d61d2e87",
	"ee2980cd6a46b5890a84554ec71e442a0cb56396caa4988f6b6750a0536abd44" +
		"84b6cf7c1b6d74cbfd5629ec24a273a6e1c62671599c7aec3fe826e8415ef472" +
		"5eb86e0ae7ca0204fca7ccf12e667a6a9a99439d11d7d9cd6939a0e40fe4c787" +
		"948dfaa5df4a50c2204b17c18ef80325b3324be227034ccb429ceb2fd31e9d33",
	"e2c4aac9e3bb28fa23d4ad3059de437021b64410677bfc1e7ad8a5c23b050e3f" +
		"f041f73e226b1f9e4d2829223f38d3dea87cf69e1a46d2f90e815bcb7bf244ed" +
		"b0ccf4a55ddb942649d0d04320865d8455c2c059ed7a6446b5ca806f77b7dc6e" +
		"5e903a76c0f3e542036dad29e4412d7facc60d77fd1813914c988857ff61f08f",
	"df3bbd1e415bb0e01cec1a59144b6e89c48b7235f8bd9b38781ceb2edfae4c90" +
		"5f42026dd2caca00b5c1c3bd2d3ac8bfef6a73b13a9861d845761b0673b4989f" +
		"c10f7e267997ec0439259c6ee86d8665b453cb2a669b315fe41a967b410b9b06" +
		"58f70ecc24e740ebb3b449e2cf424898211e14d50623408570e8791320aa5413",
}

// SafePrimeCount is the number of distinct pairs returned by SafePrimePair.
const SafePrimeCount = 5

// SafePrimePair returns the i-th pair of precomputed safe primes, for 0 ≤ i < SafePrimeCount.
// Distinct indices never share a prime.
func SafePrimePair(i int) (p, q *saferith.Nat) {
	i %= SafePrimeCount
	return mustNat(safePrimes[2*i]), mustNat(safePrimes[2*i+1])
}

func mustNat(s string) *saferith.Nat {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return new(saferith.Nat).SetBytes(b)
}
