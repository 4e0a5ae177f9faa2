package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/steplm/pkg/errors"
)

// SaveModel はモデルを gob 形式でファイルに保存する
//
// gonum の *mat.Dense は BinaryMarshaler を実装しているので、
// 係数行列を持つ構造体もそのまま保存できる。
//
//	coef, _ := report.Reconstruct(res)
//	err := model.SaveModel(coef, "model.gob")
func SaveModel(m any, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create model file %s", filename)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close model file %s", filename)
		}
	}()
	return SaveModelToWriter(m, file)
}

// LoadModel はファイルからモデルを読み込む。m はポインタであること。
func LoadModel(m any, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "open model file %s", filename)
	}
	defer file.Close()
	return LoadModelFromReader(m, file)
}

// SaveModelToWriter はモデルを io.Writer に書き出す
func SaveModelToWriter(m any, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return nil
}

// LoadModelFromReader は io.Reader からモデルを読み込む
func LoadModelFromReader(m any, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return errors.Wrap(err, "decode model")
	}
	return nil
}
