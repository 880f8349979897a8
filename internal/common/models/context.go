package models

// ActorKey is the fiber locals key under which the authenticated Actor is stored.
// It is a plain string so it survives the websocket upgrade, which copies string keys only.
const ActorKey = "actor"
