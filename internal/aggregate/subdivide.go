package aggregate

import (
	"fmt"
	"math/big"
	"net/netip"
)

// Block is a CIDR block: Base is aligned to 2^(width-PrefixLen).
type Block struct {
	Base      *big.Int
	PrefixLen int
}

// Prefix converts the block to a netip.Prefix of family fam.
func (b Block) Prefix(fam Family) netip.Prefix {
	return netip.PrefixFrom(fam.Addr(b.Base), b.PrefixLen)
}

// Size returns the number of addresses in the block for the given width.
func (b Block) Size(width int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(width-b.PrefixLen))
}

// Subdivide splits r into the minimal ascending list of aligned blocks that
// exactly cover it, for addresses width bits wide.
func Subdivide(r Range, width int) []Block {
	start := new(big.Int).Set(r.Start)
	length := new(big.Int).Set(r.Length)

	var blocks []Block
	for length.Sign() != 0 {
		sizeBits := length.BitLen() - 1
		alignBits := width
		if start.Sign() != 0 {
			alignBits = int(start.TrailingZeroBits())
		}
		blockBits := min(sizeBits, alignBits)

		blocks = append(blocks, Block{Base: new(big.Int).Set(start), PrefixLen: width - blockBits})

		size := new(big.Int).Lsh(big.NewInt(1), uint(blockBits))
		start.Add(start, size)
		length.Sub(length, size)
		if length.Sign() < 0 {
			panic(fmt.Sprintf("aggregate: negative remaining length subdividing %v", r))
		}
	}
	return blocks
}
