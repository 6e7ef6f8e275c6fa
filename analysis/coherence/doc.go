// Package coherence derives pairwise frequency-domain association measures
// from a multi-channel series: cross-spectra, coherence, coherency, phase,
// per-frequency delay, and partial coherence.
//
// Pairwise quantities are conjugate-symmetric by construction, so the dense
// analyzer estimates only the upper triangle (i <= j) and fills the lower
// triangle by conjugate mirroring; the estimator runs n*(n+1)/2 times for n
// channels. The sparse analyzer restricts work further to a caller-supplied
// pair list for large channel counts.
package coherence
