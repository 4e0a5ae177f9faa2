// Package model provides the fitted-state bookkeeping shared by estimators.
package model

import "sync"

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は推定器に埋め込む学習状態。並行アクセスに対して安全。
type BaseEstimator struct {
	mu        sync.RWMutex
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == Fitted
}

// SetFitted は学習時の次元を記録し、学習済み状態に設定する
func (e *BaseEstimator) SetFitted(nFeatures, nSamples int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Fitted
	e.nFeatures = nFeatures
	e.nSamples = nSamples
}

// Dims は学習時の特徴量数とサンプル数を返す
func (e *BaseEstimator) Dims() (nFeatures, nSamples int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nFeatures, e.nSamples
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = NotFitted
	e.nFeatures = 0
	e.nSamples = 0
}
