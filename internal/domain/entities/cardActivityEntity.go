package entities

// CardActivityPartitionKey is the fixed partition every card binding
// is stored under.
const CardActivityPartitionKey = "UserProfileActivityInfo"

// CardActivityInfo binds a generated profile card id to the transport
// activity that rendered it, so a later edit can update that message
// in place. Upserts are last-write-wins on CardID.
type CardActivityInfo struct {
	PartitionKey string `json:"partitionKey" bson:"partition_key"`
	CardID       string `json:"myProfileCardId" bson:"row_key"`
	ActivityID   string `json:"myProfileCardActivityId" bson:"activity_id"`
}

// CardActivityKeys derives the storage keys for a card binding.
func CardActivityKeys(cardID string) (partitionKey, rowKey string) {
	return CardActivityPartitionKey, cardID
}
