// Package estimate implements the spectral-estimation primitives shared by
// the analyzers: a raw one-sided Fourier spectrum, a Welch windowed-average
// cross-spectral density, a sine-taper multitaper density, and a per-channel
// FFT segment cache for sparse pairwise estimation.
//
// A Method descriptor selects the estimator by name and carries its
// parameters; zero-valued fields resolve to defaults. The pairwise
// cross-spectrum contract (CrossSpectrumFunc) is the injection point the
// coherence analyzers build on.
package estimate
