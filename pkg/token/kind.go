package token

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform lower -json -output kind.gen.go

// Kind discriminates access tokens from refresh tokens. Access tokens carry
// no discriminator claim on the wire; refresh tokens are marked explicitly.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)
