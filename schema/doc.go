/*
Package schema defines the declarative data model descriptions consumed by
the dynarest resource factories.

A Model is plain data: a name, an ordered list of typed attributes, and zero
or more secondary index descriptions. There is no inheritance and no global
registry; callers construct Model values (in code or from YAML files via
Load/LoadFile) and hand them to the factories.

Key invariants, enforced by Validate and Keys:
  - attribute names are unique within a model or index
  - exactly one hash key, at most one range key
  - key attributes are of a scalar kind
  - index projections are a subset of the owning model's attributes

Example YAML definition:

	models:
	  - name: thread
	    attributes:
	      - name: forum_name
	        kind: string
	        hashKey: true
	      - name: subject
	        kind: string
	        rangeKey: true
	      - name: views
	        kind: number
	        default: 0
	    indexes:
	      - name: by_views
	        attributes:
	          - name: views
	            kind: number
	            hashKey: true
*/
package schema
