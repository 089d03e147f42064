// Package cuml provides Go adapters for a native GPU machine learning
// library: elastic-net regression by coordinate descent, UMAP embeddings,
// and brute-force nearest-neighbor search.
//
// The adapters are deliberately thin. Hyperparameters are validated at
// construction, inputs at the call; data is staged into device buffers,
// one native entry point runs per call, the stream is synchronized, and
// results come back as gonum matrices. The mathematics lives behind the
// native boundary and is never reimplemented here.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/Zhylkaaa/cuml/linear_model"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    model, err := linear_model.NewElasticNet(
//	        linear_model.WithAlpha(0.1),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer model.Close()
//
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    predictions, err := model.Predict(mat.NewDense(2, 1, []float64{5, 6}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", predictions)
//	}
//
// # Packages
//
//   - solvers: the coordinate-descent solver adapter (CD)
//   - linear_model: ElasticNet and Lasso over the solver
//   - manifold: the UMAP embedding adapter
//   - neighbors: nearest-neighbor search
//   - metrics: host-side evaluation metrics (MSE, RMSE, MAE, R2)
//   - preprocessing: host-side feature scaling
//   - cuda: device buffers, memory pool, streams, handles
//   - native: the backend boundary and registry
//   - native/nativetest: a recording fake backend for tests
//
// # Backends
//
// Native backends register themselves at init time; builds without one
// can construct estimators and validate inputs, but Fit and Predict
// return a NoBackendError. Estimator instances are not safe for
// concurrent use; run concurrent models as separate instances bound to
// separate handles.
package cuml
