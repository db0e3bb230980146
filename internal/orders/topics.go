package orders

const TopicOrderPlaced = "order.placed"

// Partition key = order_id so downstream consumers see events for one order
// in order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
