package reconcile

import (
	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/vdom"
)

func hostErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.New("E210").WithDetail(op).Wrap(err)
}

func foreignErrMissing(node *vdom.VNode) error {
	return errors.New("E220").WithPath(node.TypeName())
}

func foreignErr(code string, node *vdom.VNode, err error) error {
	if err == nil {
		return nil
	}
	return errors.New(code).WithPath(node.TypeName()).Wrap(err)
}

func alreadyMounted(node *vdom.VNode) error {
	return errors.New("E200").
		WithPath(node.TypeName()).
		WithDetail("node is already mounted; build a new node instead of reusing a live one")
}
