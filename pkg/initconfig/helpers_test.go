package initconfig_test

import stderrors "errors"

func errorAs(err error, target any) bool {
	return stderrors.As(err, target)
}
