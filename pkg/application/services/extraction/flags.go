package extraction

// Tag names of the shipping document (NF-e) that carry the extracted fields
const (
	invoiceTag   = "nFat"
	infoTag      = "infCpl"
	quantityTag  = "qVol"
	accessKeyTag = "chNFe"

	clientPathTag  = "dest"
	carrierPathTag = "transporta"

	// displayNameTag appears under both the client and the carrier path
	displayNameTag = "xNome"
)

// fieldFlags marks which fields are currently capturing text
type fieldFlags uint8

const (
	invoiceFlag fieldFlags = 1 << iota
	clientFlag
	carrierFlag
	infoFlag
	quantityFlag
	accessKeyFlag
)

// backtrackFlags remembers which parent path the stream is currently inside,
// to tell apart the two meanings of displayNameTag
type backtrackFlags uint8

const (
	clientPathFlag backtrackFlags = 1 << iota
	carrierPathFlag
)

// Flags use toggle semantics: entering and exiting a tag flips the same bit
// twice. Unbalanced enter/exit events leave the state machine undefined.

func (f *fieldFlags) toggle(flag fieldFlags) {
	*f ^= flag
}

func (f fieldFlags) has(flag fieldFlags) bool {
	return f&flag == flag
}

func (b *backtrackFlags) toggle(flag backtrackFlags) {
	*b ^= flag
}

func (b backtrackFlags) has(flag backtrackFlags) bool {
	return b&flag == flag
}

// matchTag updates the flag sets for an enter or exit event of the named tag
func matchTag(name string, fields *fieldFlags, backtrack *backtrackFlags) {
	switch name {
	case invoiceTag:
		fields.toggle(invoiceFlag)
	case infoTag:
		fields.toggle(infoFlag)
	case quantityTag:
		fields.toggle(quantityFlag)
	case accessKeyTag:
		fields.toggle(accessKeyFlag)
	case clientPathTag:
		backtrack.toggle(clientPathFlag)
	case carrierPathTag:
		backtrack.toggle(carrierPathFlag)
	case displayNameTag:
		if backtrack.has(clientPathFlag) {
			fields.toggle(clientFlag)
		}
		if backtrack.has(carrierPathFlag) {
			fields.toggle(carrierFlag)
		}
	}
}
