package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "Beacon Discovery Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the Beacon genomic-data discovery API!"
	SERVICE_DESCRIPTION ServiceInfo = "Beacon service answering variant and region existence queries across datasets."
	SERVICE_CONTACT     ServiceInfo = "mailto:beacon.ega@crg.eu"

	SERVICE_ARTIFACT    ServiceInfo = "beacon"
	SERVICE_API_VERSION ServiceInfo = "v1.0.1"
	SERVICE_VERSION     ServiceInfo = "0.0.1"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.ga4gh:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
