// Package deepbelief is a small, thread-safe toolkit for training Restricted
// Boltzmann Machines and stacking them into Deep Belief Networks, built on
// its own dense matrix kernel.
//
// 🚀 What is inside?
//
//	• Numeric kernel: dense matrices & vectors, row-parallel products,
//	  elementwise ops, structural edits (bias rows/columns, windows)
//	• Randomness: one injectable, mutex-guarded source for uniform and
//	  Gaussian draws, plus matrix/vector generators
//	• RBM: CD-1 training, hidden/visible sampling, reconstruction, daydreams,
//	  cancellable background training
//	• DBN: greedy layer-wise pretraining with geometric or linear epoch
//	  schedules, encode/decode through the stack
//	• Progress events: observers for console reporting, channels, recorders
//	  and a SQL-backed training history
//
// Subpackages:
//
//	matrix/     - Dense, Vector, products, elementwise & structural ops
//	rng/        - Source, Locked, Uniform/Gaussian/Bool matrix generators
//	activation/ - logistic sigmoid over scalars, vectors and matrices
//	progress/   - Event, Observer, Multi, Channel, Recorder, Relayer
//	rbm/        - the Restricted Boltzmann Machine
//	dbn/        - the Deep Belief Network
//	dataset/    - optdigits-style bitmap loader and printer
//	runlog/     - training events persisted through database/sql
//	cmd/dbn     - console demo: train, reconstruct, daydream
//
// Quick ASCII picture of a 3-layer stack:
//
//	  h2  ○ ○            ← top hidden (sizes[2])
//	      │╲│  RBM 1
//	  h1  ○ ○ ○ ○        ← sizes[1]
//	      │╲│╲│╲│  RBM 0
//	  v   ○ ○ ○ ○ ○ ○    ← visible data (sizes[0])
//
// Encode walks up, Decode walks down, Reconstruct does both.
//
//	go run ./cmd/dbn -data optdigits-orig.tra -layers 1024,50,16
package deepbelief
