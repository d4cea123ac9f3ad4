package retriever

import apperrors "codeberg.org/algopatterns/catalog/internal/errors"

func storeErrorCategory(err error) string {
	return string(apperrors.Classify(err).Category)
}
