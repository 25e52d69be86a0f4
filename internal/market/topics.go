package market

import "strconv"

const (
	TopicPurchaseCompleted = "market.purchase.completed"
	TopicPurchaseRejected  = "market.purchase.rejected"
)

// Partition key = product_id, so all purchase events for one product keep
// their relative order.
func PartitionKey(productID int64) []byte {
	return []byte(strconv.FormatInt(productID, 10))
}
