/*
Package security groups the transport and access controls of the verdict HTTP
server.

  - auth: API key authentication for the rule routes
  - tls: HTTPS with certificate hot reload and optional client certificates

Both are off by default and enabled from the server section of the
configuration:

	server:
	  auth:
	    enabled: true
	    keys:
	      - name: ci
	        key_env: VERDICT_CI_KEY
	  tls:
	    enabled: true
	    cert_file: /etc/verdict/tls/server.crt
	    key_file: /etc/verdict/tls/server.key
*/
package security
