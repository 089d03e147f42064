//go:build cuda

package native

import (
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// cudaBackend is a stub registered under the "cuda" build tag. Linking the
// real native library happens in a cgo layer outside this module; until
// that layer is present the stub reports itself unavailable and rejects
// every call.
type cudaBackend struct{}

func init() {
	Register(&cudaBackend{})
}

func (b *cudaBackend) Name() string    { return "cuda" }
func (b *cudaBackend) Available() bool { return false }

func (b *cudaBackend) CDFit32(*cuda.Handle, cuda.Buffer, int, int, cuda.Buffer, cuda.Buffer, CDParams, cuda.Buffer) (float32, error) {
	return 0, errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) CDFit64(*cuda.Handle, cuda.Buffer, int, int, cuda.Buffer, cuda.Buffer, CDParams, cuda.Buffer) (float64, error) {
	return 0, errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) CDPredict32(*cuda.Handle, cuda.Buffer, int, int, cuda.Buffer, float32, cuda.Buffer) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) CDPredict64(*cuda.Handle, cuda.Buffer, int, int, cuda.Buffer, float64, cuda.Buffer) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) UMAPFit(*cuda.Handle, cuda.Buffer, int, int, Index, UMAPParams, cuda.Buffer) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) UMAPTransform(*cuda.Handle, cuda.Buffer, int, int, cuda.Buffer, int, Index, UMAPParams, cuda.Buffer) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) KNNBuild(*cuda.Handle, int) (Index, error) {
	return nil, errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) KNNFit(Index, cuda.Buffer, int) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) KNNSearch(Index, cuda.Buffer, int, int, cuda.Buffer, cuda.Buffer) error {
	return errors.WithStack(ErrBackendUnavailable)
}

func (b *cudaBackend) KNNRelease(Index) error {
	return errors.WithStack(ErrBackendUnavailable)
}
