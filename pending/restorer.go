package pending

import (
	"fmt"

	"github.com/bitmark-inc/marbled/storage"

	"github.com/prometheus/common/log"

	"github.com/bitmark-inc/marbled/mode"

	"github.com/bitmark-inc/marbled/transactionrecord"
)

// Restorer - interface to restore data from cache file
type Restorer interface {
	Restore() error
}

// NewRestorer - create object with Restorer interface
func NewRestorer(t interface{}, args ...interface{}) (Restorer, error) {
	switch t.(type) {
	case *transactionrecord.MarbleBatch:
		if 3 != len(args) {
			return nil, fmt.Errorf("insufficient parameter")
		}
		return &batchRestoreData{
			batch:              t.(*transactionrecord.MarbleBatch),
			packed:             args[0].(transactionrecord.Packed),
			batchesHandle:      args[1].(storage.Handle),
			transactionsHandle: args[2].(storage.Handle),
		}, nil
	}
	return nil, nil
}

type batchRestoreData struct {
	batch              *transactionrecord.MarbleBatch
	packed             transactionrecord.Packed // packed transactions following the header
	batchesHandle      storage.Handle
	transactionsHandle storage.Handle
}

func (b *batchRestoreData) Restore() error {
	transactions := make([]transactionrecord.Packed, 0, len(b.batch.TxIds))

	packed := b.packed
	for len(packed) > 0 {
		transaction, n, err := packed.Unpack(mode.IsTesting())
		if nil != err {
			msg := fmt.Errorf("unable to unpack transaction: %s", err)
			log.Errorf("%s", msg)
			return msg
		}

		if _, ok := transaction.(*transactionrecord.MarbleTransaction); ok {
			transactions = append(transactions, packed[:n])
		} else {
			msg := fmt.Errorf("batch contains non-transaction: %+v", transaction)
			log.Errorf("%s", msg)
			return msg
		}
		packed = packed[n:]
	}

	_, _, err := StoreBatch(b.batch, transactions, b.batchesHandle, b.transactionsHandle)
	if nil != err {
		log.Errorf("fail to store batch: %s", err)
	}

	return nil
}
