/*
Package dynarest maps declarative data-model descriptions onto REST
resources backed by DynamoDB.

A model declares its name, typed attributes, hash/range keys and secondary
indexes (in Go or loaded from YAML). The resource factories derive a field
contract from the attributes once, then expose list/create on the
collection path, get/update/delete on the item path, and a read-only query
route per index, with a JSON schema document for discovery.

Basic usage:

	models, _ := schema.LoadFile("models/thread.yaml")
	client, _ := ddb.NewClient(accessKey, secretKey, region)
	keys, _ := models[0].Keys()
	store := ddb.New(client, "Thread", keys)

	res, _ := resource.NewModel(models[0], store, "/thread")

	reg := dynarest.NewRegistry()
	_ = reg.Register(res)

	mux := http.NewServeMux()
	reg.MountAll(mux)
	http.ListenAndServe(":8080", mux)

The datastore package defines the store interface; ddb implements it on
DynamoDB and mock implements it in memory for tests.
*/
package dynarest
