package console

import (
	"context"
	"fmt"

	"github.com/joshyorko/btmgr/common"
	"github.com/joshyorko/btmgr/gatt"
)

func (it *Console) canRead() bool {
	characteristic, ok := it.selectedCharacteristic()
	if !ok {
		return false
	}
	readable, err := characteristic.Readable()
	return err == nil && readable
}

func (it *Console) canWrite() bool {
	characteristic, ok := it.selectedCharacteristic()
	if !ok {
		return false
	}
	writable, err := characteristic.Writable()
	return err == nil && writable
}

func (it *Console) read(ctx context.Context, _ []string) (string, error) {
	characteristic, _ := it.selectedCharacteristic()
	ctx, cancel := it.deadline(ctx)
	defer cancel()
	raw, err := characteristic.Read(ctx)
	if err != nil {
		return "", err
	}
	return gatt.Render(it.catalog, characteristic.Address().CharacteristicID(), raw), nil
}

// write builds the whole payload before touching the characteristic, so a
// field that does not convert leaves the remote value alone.
func (it *Console) write(ctx context.Context, args []string) (string, error) {
	characteristic, _ := it.selectedCharacteristic()
	if it.catalog == nil {
		return "", gatt.ErrUnknownSchema
	}
	request, err := it.catalog.Prepare(characteristic.Address().CharacteristicID())
	if err != nil {
		return "", err
	}
	err = request.SetField(args[0], args[1])
	if err != nil {
		return "", err
	}
	payload, err := it.catalog.Serialize(request)
	if err != nil {
		return "", err
	}
	ctx, cancel := it.deadline(ctx)
	defer cancel()
	accepted, err := characteristic.Write(ctx, payload)
	if err != nil {
		return "", err
	}
	if !accepted {
		return "", fmt.Errorf("%w: %v", ErrRejected, characteristic)
	}
	common.Debug("Wrote %s to %v.", gatt.Hex(payload), characteristic)
	return "OK", nil
}
